package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tessbot/internal/auth"
	"tessbot/internal/journal"
	"tessbot/internal/solver"
)

const indexPage = `<!doctype html>
<html>
<head><title>tessbot</title></head>
<body>
<h1>tessbot</h1>
<form method="post" action="/run">
  <label>Access token<br><input type="password" name="token" placeholder="Bearer XXXXXXXXXXX" size="60"></label><br><br>
  <label>Unit IDs (space-separated)<br><input type="text" name="units" size="60"></label><br><br>
  <button type="submit">Solve quizzes</button>
</form>
</body>
</html>
`

// reportNamePattern matches file names produced by solver.SanitizeFileName.
var reportNamePattern = regexp.MustCompile(`^[a-z0-9_]+\.txt$`)

func (a *API) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRun accepts the two form fields, executes a full run with a
// request-scoped credential, and streams the aggregated result back as
// a text download.
func (a *API) HandleRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form body"})
		return
	}

	token := strings.TrimSpace(r.PostFormValue("token"))
	units := strings.Fields(r.PostFormValue("units"))

	// Both inputs are validated before any remote call is issued.
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}
	if len(units) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unit ids are required"})
		return
	}

	if info, err := auth.Inspect(token); err == nil && info.Expired(time.Now()) {
		a.logger.Warn("access token looks expired",
			"username", info.Username,
			"expired_at", info.ExpiresAt)
	}

	summary, err := a.run(r.Context(), token, units)
	if err != nil {
		a.logger.Error("run failed", "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, solver.ErrNoUnits) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	fileName := fmt.Sprintf("quiz_results_%d.txt", time.Now().Unix())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	_, _ = w.Write([]byte(aggregateText(summary)))
}

func (a *API) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if a.recorder == nil {
		writeJSON(w, http.StatusOK, runsResponse{Runs: []runRecordResponse{}})
		return
	}

	runs, err := a.recorder.ListRuns(r.Context(), 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}

	response := runsResponse{Runs: make([]runRecordResponse, 0, len(runs))}
	for _, run := range runs {
		response.Runs = append(response.Runs, runRecordResponse{
			RunID:      run.RunID,
			Units:      run.Units,
			Status:     run.Status,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleReports(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(a.reportDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, reportsResponse{Reports: []reportFileResponse{}})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list reports"})
		return
	}

	response := reportsResponse{Reports: make([]reportFileResponse, 0, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !reportNamePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		response.Reports = append(response.Reports, reportFileResponse{
			Name:       entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !reportNamePattern.MatchString(name) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report name"})
		return
	}

	path := filepath.Join(a.reportDir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read report"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(content)
}

// aggregateText is the download body: the run log first, then every
// produced report.
func aggregateText(summary *solver.RunSummary) string {
	var builder strings.Builder
	for _, line := range summary.Log {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	for _, topic := range summary.Topics {
		if topic.Status != journal.TopicCompleted {
			continue
		}
		builder.WriteString(topic.Report)
	}
	return builder.String()
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tessbot/internal/auth"
	"tessbot/internal/config"
	"tessbot/internal/journal"
	"tessbot/internal/journal/sqlite"
	"tessbot/internal/solver"
	"tessbot/internal/tesseract"
)

var runCmd = &cobra.Command{
	Use:   "run [unit-id ...]",
	Short: "Solve quizzes for units or a whole subject",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("token", "", "access token (defaults to TESSBOT_TOKEN)")
	runCmd.Flags().String("units", "", "space-separated unit ids")
	runCmd.Flags().String("subject", "", "subject id, expands to all of its units")
	runCmd.Flags().String("report-dir", "", "directory for report files (defaults to TESSBOT_REPORT_DIR)")
	runCmd.Flags().String("db", "", "run journal database path (defaults to TESSBOT_DB)")
	runCmd.Flags().String("base-url", "", "API base URL override")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	logger := newLogger()

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.Token
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("access token is required (--token or TESSBOT_TOKEN)")
	}

	unitsFlag, _ := cmd.Flags().GetString("units")
	units := append(strings.Fields(unitsFlag), args...)
	subject, _ := cmd.Flags().GetString("subject")
	if len(units) == 0 && subject == "" {
		return errors.New("no unit ids given (--units, positional args, or --subject)")
	}

	if info, err := auth.Inspect(token); err == nil && info.Expired(time.Now()) {
		logger.Warn("access token looks expired", "username", info.Username, "expired_at", info.ExpiresAt)
	}

	reportDir := flagOr(cmd, "report-dir", cfg.ReportDir)
	baseURL := flagOr(cmd, "base-url", cfg.BaseURL)

	var recorder journal.Recorder
	if dbPath := flagOr(cmd, "db", cfg.DBPath); dbPath != "" {
		store, err := sqlite.NewStore(dbPath)
		if err != nil {
			logger.Warn("run journal unavailable", "path", dbPath, "error", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	client := tesseract.NewClient(baseURL, token, &http.Client{Timeout: cfg.HTTPTimeout})
	runner := solver.NewRunner(client, reportDir, logger)
	orchestrator := solver.NewOrchestrator(client, runner, recorder, logger)

	var (
		summary *solver.RunSummary
		err     error
	)
	if subject != "" {
		summary, err = orchestrator.RunSubject(cmd.Context(), subject)
	} else {
		summary, err = orchestrator.Run(cmd.Context(), units)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range summary.Log {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "\nRun %s finished: %d of %d topics completed.\n",
		summary.RunID, summary.Completed(), len(summary.Topics))
	for _, topic := range summary.Topics {
		if topic.ReportFile != "" {
			fmt.Fprintf(out, "report: %s\n", topic.ReportFile)
		}
	}
	return nil
}

func flagOr(cmd *cobra.Command, name, fallback string) string {
	if value, _ := cmd.Flags().GetString(name); value != "" {
		return value
	}
	return fallback
}

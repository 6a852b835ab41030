package webapi

import (
	"context"
	"log/slog"
	"net/http"

	"tessbot/internal/journal"
	"tessbot/internal/solver"
	"tessbot/internal/tesseract"
)

// RunFunc executes one quiz-solving run with a request-scoped
// credential. Swappable so handler tests do not need a remote service.
type RunFunc func(ctx context.Context, token string, units []string) (*solver.RunSummary, error)

type API struct {
	run       RunFunc
	reportDir string
	recorder  journal.Recorder
	logger    *slog.Logger
}

func NewAPI(run RunFunc, reportDir string, recorder journal.Recorder, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		run:       run,
		reportDir: reportDir,
		recorder:  recorder,
		logger:    logger,
	}
}

// DefaultRunFunc wires the production chain: run-scoped client, runner,
// orchestrator. Each call builds a fresh client so credentials never
// leak between runs.
func DefaultRunFunc(baseURL, reportDir string, httpClient *http.Client, recorder journal.Recorder, logger *slog.Logger) RunFunc {
	return func(ctx context.Context, token string, units []string) (*solver.RunSummary, error) {
		client := tesseract.NewClient(baseURL, token, httpClient)
		runner := solver.NewRunner(client, reportDir, logger)
		return solver.NewOrchestrator(client, runner, recorder, logger).Run(ctx, units)
	}
}

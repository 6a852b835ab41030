package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tessbot/internal/config"
	"tessbot/internal/journal"
	"tessbot/internal/journal/sqlite"
	"tessbot/internal/webapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and report downloads",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (defaults to TESSBOT_ADDR)")
	serveCmd.Flags().String("report-dir", "", "directory for report files (defaults to TESSBOT_REPORT_DIR)")
	serveCmd.Flags().String("db", "", "run journal database path (defaults to TESSBOT_DB)")
	serveCmd.Flags().String("base-url", "", "API base URL override")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	logger := newLogger()

	addr := flagOr(cmd, "addr", cfg.HTTPAddr)
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

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := webapi.NewAPI(
		webapi.DefaultRunFunc(baseURL, reportDir, httpClient, recorder, logger),
		reportDir,
		recorder,
		logger,
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           webapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("tessbot listening", "addr", addr, "report_dir", reportDir)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

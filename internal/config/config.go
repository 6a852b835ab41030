package config

import (
	"os"
	"time"
)

// Config carries process-level settings. The access credential is
// deliberately not part of it on the server path: each run request
// brings its own credential.
type Config struct {
	HTTPAddr    string
	BaseURL     string
	Token       string
	ReportDir   string
	DBPath      string
	HTTPTimeout time.Duration
}

// FromEnv builds the configuration from TESSBOT_* variables with
// defaults suitable for a local run. HTTPTimeout defaults to zero (no
// timeout): the remote service is the bottleneck and the source of
// truth, so a slow call is waited out rather than cut off.
func FromEnv() Config {
	return Config{
		HTTPAddr:    envOr("TESSBOT_ADDR", ":8080"),
		BaseURL:     envOr("TESSBOT_BASE_URL", ""),
		Token:       os.Getenv("TESSBOT_TOKEN"),
		ReportDir:   envOr("TESSBOT_REPORT_DIR", "reports"),
		DBPath:      envOr("TESSBOT_DB", "tessbot.db"),
		HTTPTimeout: envDuration("TESSBOT_HTTP_TIMEOUT", 0),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

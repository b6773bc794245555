package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// applyEnv overrides file values with CALC_* and OTEL_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CALC_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("CALC_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CALC_SESSION_TTL: %w", err)
		}
		c.Sessions.TTL.Duration = d
	}
	if v := os.Getenv("CALC_MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CALC_MAX_SESSIONS: %w", err)
		}
		c.Sessions.MaxSessions = n
	}
	if v := os.Getenv("CALC_REMOTE_URL"); v != "" {
		c.TUI.RemoteURL = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		c.Telemetry.OTLPEnabled = true
	}
	return nil
}

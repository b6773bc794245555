package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"go-chi-calculator/internal/config"
)

func TestInitTelemetryDisabledIsNoop(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.OTLPEnabled = false

	shutdown, err := InitTelemetry(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTelemetry: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitLoggerFormats(t *testing.T) {
	old := Logger
	t.Cleanup(func() { Logger = old })

	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			err := InitLogger(config.LogConfig{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
			if err != nil {
				t.Fatalf("InitLogger: %v", err)
			}
			if !Logger.Core().Enabled(zap.DebugLevel) {
				t.Fatal("expected debug level to be enabled")
			}
		})
	}

	if err := InitLogger(config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected an invalid level to fail")
	}
}

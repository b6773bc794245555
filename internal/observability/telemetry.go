package observability

import (
	"context"
	"errors"
	"fmt"

	"go-chi-calculator/internal/config"
)

// InitTelemetry starts the OTLP trace, metric and log pipelines when cfg
// enables them. On success the returned shutdown is never nil and flushes
// every pipeline that was started.
func InitTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.OTLPEnabled {
		return func(context.Context) error { return nil }, nil
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	steps := []struct {
		name string
		init func(context.Context, config.TelemetryConfig) (func(context.Context) error, error)
	}{
		{"tracing", InitTracing},
		{"metrics", InitMetrics},
		{"logging", InitLogging},
	}

	for _, s := range steps {
		fn, err := s.init(ctx, cfg)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("init %s: %w", s.name, err)
		}
		shutdowns = append(shutdowns, fn)
	}

	return shutdown, nil
}

package keypad

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They are no-ops until InitMetrics runs.
var (
	keysCounter    metric.Int64Counter     = noop.Int64Counter{}
	divZeroCounter metric.Int64Counter     = noop.Int64Counter{}
	errorCounter   metric.Int64Counter     = noop.Int64Counter{}
	pressHistogram metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMetrics registers the keypad instruments on the global meter provider.
// Call it once at startup, after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Keys applied to calculators, by key kind"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	divZeroCounter, err = meter.Int64Counter("calculator.division_by_zero.total",
		metric.WithDescription("Key presses whose computation divided by zero"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating division by zero counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	pressHistogram, err = meter.Float64Histogram("calculator.press.duration",
		metric.WithDescription("Time to apply one batch of keys in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating press histogram: %w", err)
	}

	return nil
}

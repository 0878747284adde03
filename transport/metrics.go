package transport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/gaborage/go-algolia/transport"

// dispatchMetrics instruments the pipeline with OpenTelemetry counters.
// All instruments are no-ops until the host application installs a meter
// provider, so recording never affects control flow.
type dispatchMetrics struct {
	dispatches metric.Int64Counter
	retries    metric.Int64Counter
	duration   metric.Float64Histogram
}

func newDispatchMetrics() *dispatchMetrics {
	meter := otel.Meter(meterName)

	dispatches, err := meter.Int64Counter(
		"algolia.client.dispatches",
		metric.WithDescription("Completed dispatch calls"),
	)
	if err != nil {
		dispatches = nil
	}

	retries, err := meter.Int64Counter(
		"algolia.client.retries",
		metric.WithDescription("Extra attempts consumed by host failover"),
	)
	if err != nil {
		retries = nil
	}

	duration, err := meter.Float64Histogram(
		"algolia.client.duration",
		metric.WithDescription("Dispatch duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		duration = nil
	}

	return &dispatchMetrics{dispatches: dispatches, retries: retries, duration: duration}
}

// record emits one measurement set per completed dispatch
func (m *dispatchMetrics) record(ctx context.Context, role Role, method string, retries int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("role", string(role)),
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)

	if m.dispatches != nil {
		m.dispatches.Add(ctx, 1, attrs)
	}
	if m.retries != nil && retries > 0 {
		m.retries.Add(ctx, int64(retries), attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	}
}

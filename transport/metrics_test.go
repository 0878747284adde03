package transport

import (
	"context"
	"errors"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// installTestMeterProvider routes the global meter through a manual reader
// for the duration of one test
func installTestMeterProvider(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return reader
}

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func TestDispatchMetricsRecorded(t *testing.T) {
	reader := installTestMeterProvider(t)

	boom := errors.New("refused")
	rt := &fakeRoundTripper{script: []scripted{
		{err: boom},
		{status: 200, body: `{}`},
	}}
	d, _ := newTestDispatcher(testConfig(), rt)

	_, err := d.Do(context.Background(), RoleRead, &Request{Method: nethttp.MethodGet, Path: "/1/indexes"})
	require.NoError(t, err)

	found := collectMetricNames(t, reader)
	assert.Contains(t, found, "algolia.client.dispatches")
	assert.Contains(t, found, "algolia.client.retries")
	assert.Contains(t, found, "algolia.client.duration")

	dispatches, ok := found["algolia.client.dispatches"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, dispatches.DataPoints, 1)
	assert.Equal(t, int64(1), dispatches.DataPoints[0].Value)

	retries, ok := found["algolia.client.retries"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, retries.DataPoints, 1)
	assert.Equal(t, int64(1), retries.DataPoints[0].Value)
}

func TestDispatchMetricsOmitRetriesWhenNone(t *testing.T) {
	reader := installTestMeterProvider(t)

	rt := &fakeRoundTripper{script: []scripted{{status: 200, body: `{}`}}}
	d, _ := newTestDispatcher(testConfig(), rt)

	_, err := d.Do(context.Background(), RoleRead, &Request{Method: nethttp.MethodGet, Path: "/1/indexes"})
	require.NoError(t, err)

	found := collectMetricNames(t, reader)
	assert.Contains(t, found, "algolia.client.dispatches")
	assert.NotContains(t, found, "algolia.client.retries")
}

func TestDispatchMetricsErrorOutcome(t *testing.T) {
	reader := installTestMeterProvider(t)

	rt := &fakeRoundTripper{script: []scripted{{status: 404, body: `{"message":"missing"}`}}}
	d, _ := newTestDispatcher(testConfig(), rt)

	_, err := d.Do(context.Background(), RoleRead, &Request{Method: nethttp.MethodGet, Path: "/1/indexes/x"})
	require.Error(t, err)

	found := collectMetricNames(t, reader)
	dispatches, ok := found["algolia.client.dispatches"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, dispatches.DataPoints, 1)

	outcome, ok := dispatches.DataPoints[0].Attributes.Value("outcome")
	require.True(t, ok)
	assert.Equal(t, "error", outcome.AsString())
}

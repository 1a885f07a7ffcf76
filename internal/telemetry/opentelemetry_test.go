package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

func TestInitMeterProvider_ExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := InitMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { Shutdown(context.Background(), mp) })

	counter, err := otel.Meter("telemetry-test").Int64Counter("osm_auth_test_events", metric.WithDescription("test"))
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "osm_auth_test_events_total" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, float64(3), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "otel counter not exported through the registry")
}

func TestShutdown_Nil(t *testing.T) {
	assert.NotPanics(t, func() { Shutdown(context.Background(), nil) })
}

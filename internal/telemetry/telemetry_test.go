package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestWithDefaults(t *testing.T) {
	t.Setenv("VERSION", "2.1.0")
	t.Setenv("ENVIRONMENT", "")

	cfg := withDefaults(Config{})
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, "opentelemetry-collector:4317", cfg.Endpoint)
	assert.Equal(t, "2.1.0", cfg.ServiceVersion)
	assert.Equal(t, "production", cfg.Environment)

	cfg = withDefaults(Config{ServiceName: "x", Endpoint: "collector:4317", Environment: "staging"})
	assert.Equal(t, "x", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "AlwaysOnSampler"},
		{1, "AlwaysOnSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.ratio).Description(), tt.want)
	}
}

package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestSetup(t *testing.T) {
	t.Run("should be a no-op without an endpoint", func(t *testing.T) {
		shutdown, err := Setup(context.Background(), Config{ServiceName: "chefbot-api"}, nil)
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("should install a global SDK provider", func(t *testing.T) {
		previous := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(previous) })

		shutdown, err := Setup(context.Background(), Config{
			ServiceName:  "chefbot-api",
			Environment:  "test",
			Endpoint:     "127.0.0.1:4318",
			Insecure:     true,
			SamplingRate: 0.5,
		}, zap.NewNop())
		require.NoError(t, err)

		_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.True(t, ok)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		// nothing was recorded, so shutdown has nothing to export
		assert.NoError(t, shutdown(ctx))
	})
}

func TestSamplingRate(t *testing.T) {
	assert.Equal(t, 1.0, samplingRate(0))
	assert.Equal(t, 1.0, samplingRate(3))
	assert.Equal(t, 0.25, samplingRate(0.25))
}

package eventbus

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExporter_CollectsDeltas(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(context.Background(), NewEnvelope("sim", "TerrainBatch", nil)))
	}
	me.collect()
	assert.Equal(t, 3.0, testutil.ToFloat64(me.published))

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("sim", "TerrainBatch", nil)))
	me.collect()
	me.collect()
	assert.Equal(t, 4.0, testutil.ToFloat64(me.published), "счётчик растёт только на приращение")

	require.NoError(t, bus.Close())
}

func TestMetricsExporter_StartStop(t *testing.T) {
	bus := NewMemoryBus(8)
	me := NewMetricsExporter(bus, prometheus.NewRegistry(), 0)
	me.Start()
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("sim", "TerrainBatch", nil)))
	me.Stop()

	// Stop делает финальный сбор
	assert.Equal(t, 1.0, testutil.ToFloat64(me.published))
	require.NoError(t, bus.Close())
}

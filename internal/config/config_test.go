package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/world-resilience/internal/erosion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
world:
  width: 64
  height: 32
  seed: 9
noise:
  backend: simplex
erosion:
  variant: classic
  max_tiles_in_list: 20
  biome_growth: true
laws:
  world_erosion: false
scheduler:
  tick_ms: 50
  max_ticks: 100
eventbus:
  url: nats://127.0.0.1:4222
`

func TestLoad_NoPath(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Equal(t, 128, OrDefault(cfg).World.Width)
}

func TestLoad_FromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erosion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	t.Setenv(ConfigEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, WorldConfig{Width: 64, Height: 32, Seed: 9}, cfg.World)
	assert.Equal(t, "simplex", cfg.Noise.Backend)
	assert.Equal(t, map[string]bool{"world_erosion": false}, cfg.Laws)
	assert.Equal(t, 50*time.Millisecond, cfg.Scheduler.TickInterval())
	assert.Equal(t, uint64(100), cfg.Scheduler.MaxTicks)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.EventBus.URL)

	// Непереопределённые поля остаются по умолчанию
	assert.Equal(t, "TERRAIN", cfg.EventBus.Stream)
	assert.Equal(t, 24*time.Hour, cfg.EventBus.RetentionDuration())
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("world: [unclosed"))
	assert.Error(t, err)
}

func TestErosionConfig_Params(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	p, err := cfg.Erosion.Params()
	require.NoError(t, err)

	want := erosion.ClassicParams()
	want.MaxTilesInList = 20
	want.BiomeGrowth = true
	assert.Equal(t, want, p)

	p, err = Default().Erosion.Params()
	require.NoError(t, err)
	assert.Equal(t, erosion.ResilienceParams(), p)
}

func TestErosionConfig_ParamsErrors(t *testing.T) {
	_, err := ErosionConfig{Variant: "apocalypse"}.Params()
	assert.Error(t, err)

	zero := 0
	_, err = ErosionConfig{MaxTilesInList: &zero}.Params()
	assert.Error(t, err)
}

func TestGetMetricsPort(t *testing.T) {
	t.Setenv("EROSION_METRICS_PORT", "")
	m := MetricsConfig{}
	assert.Equal(t, 2112, m.GetMetricsPort())

	t.Setenv("EROSION_METRICS_PORT", "9100")
	assert.Equal(t, 9100, m.GetMetricsPort())

	m.Port = 9200
	assert.Equal(t, 9200, m.GetMetricsPort())
}

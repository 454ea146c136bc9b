package erosion

import (
	"io"
	"math/rand"
	"testing"

	"github.com/annel0/world-resilience/internal/logging"
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
	"github.com/annel0/world-resilience/internal/worldlaw"
	"github.com/stretchr/testify/require"
)

// constNoise возвращает одно и то же значение для любых координат
type constNoise float64

func (n constNoise) TileNoise(vec.Vec2, int) float64 { return float64(n) }

func parseWorld(t *testing.T, rows ...string) *world.World {
	t.Helper()
	w, err := world.ParseTypeGrid(rows, world.DefaultLegend, 1)
	require.NoError(t, err)
	return w
}

func newTestContext(w *world.World, params Params, noise Noise) *passContext {
	return &passContext{
		params: params,
		world:  w,
		noise:  noise,
		batch:  NewBatch(params.MaxTilesInList),
		rng:    rand.New(rand.NewSource(1)),
		biomes: tiletype.BiomePool(),
		hits:   make(map[RuleID]int),
	}
}

func enabledLaws(t *testing.T) *worldlaw.Laws {
	t.Helper()
	ls := worldlaw.New()
	worldlaw.Init(ls)
	require.NoError(t, ls.Set(worldlaw.Erosion, true))
	return ls
}

func quietLogger() *logging.Logger {
	return logging.NewWriterLogger("erosion-test", io.Discard, logging.ERROR)
}

func typeAt(w *world.World, x, y int) tiletype.TypeID {
	return w.Tile(x, y).Type().ID
}

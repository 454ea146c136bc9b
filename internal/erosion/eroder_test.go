package erosion

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/annel0/world-resilience/internal/util"
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
	"github.com/annel0/world-resilience/internal/worldlaw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingObserver struct {
	ticks   []uint64
	changes [][]Change
	err     error
}

func (o *recordingObserver) OnCommit(_ context.Context, tick uint64, changes []Change) error {
	o.ticks = append(o.ticks, tick)
	o.changes = append(o.changes, changes)
	return o.err
}

type staticIslands []*world.Island

func (s staticIslands) Islands() []*world.Island { return s }

// stripedWorld: полосы песка между полосами океана, каждый песчаный тайл тонет
func stripedWorld(t *testing.T, width, sandRows int) *world.World {
	t.Helper()
	rows := make([]string, 0, sandRows*2+1)
	for i := 0; i < sandRows; i++ {
		rows = append(rows, strings.Repeat("~", width), strings.Repeat("s", width))
	}
	rows = append(rows, strings.Repeat("~", width))
	return parseWorld(t, rows...)
}

func newTestEroder(t *testing.T, w *world.World, laws *worldlaw.Laws, opts ...Option) *Eroder {
	t.Helper()
	params := ResilienceParams()
	params.BiomeGrowth = false
	opts = append([]Option{WithRand(rand.New(rand.NewSource(7))), WithLogger(quietLogger())}, opts...)
	e, err := NewEroder(params, w, world.NewIslandsCalculator(w), constNoise(0.3), laws, opts...)
	require.NoError(t, err)
	return e
}

func snapshot(w *world.World) map[vec.Vec2]tiletype.TypeID {
	out := make(map[vec.Vec2]tiletype.TypeID, len(w.Tiles()))
	for _, tile := range w.Tiles() {
		out[tile.Pos] = tile.Type().ID
	}
	return out
}

func TestNewEroder_Validation(t *testing.T) {
	w := parseWorld(t, "ss")
	params := ResilienceParams()
	params.MaxTilesInList = 0

	_, err := NewEroder(params, w, world.NewIslandsCalculator(w), constNoise(0.3), worldlaw.New())
	assert.Error(t, err)

	_, err = NewEroder(ResilienceParams(), w, nil, constNoise(0.3), worldlaw.New())
	assert.Error(t, err)
}

func TestRunErosionPass_DisabledLawIsNoop(t *testing.T) {
	w := stripedWorld(t, 20, 3)
	laws := worldlaw.New()
	worldlaw.Init(laws)
	obs := &recordingObserver{}
	e := newTestEroder(t, w, laws, WithObserver(obs))

	before := snapshot(w)
	for i := 0; i < 3; i++ {
		res := e.RunErosionPass(context.Background())
		assert.True(t, res.Skipped)
		assert.Empty(t, res.Changes)
	}
	assert.Equal(t, before, snapshot(w))
	assert.Equal(t, uint64(0), w.ChangeCounter())
	assert.Empty(t, obs.ticks)
}

func TestRunErosionPass_RespectsBatchCap(t *testing.T) {
	w := stripedWorld(t, 40, 10)
	e := newTestEroder(t, w, enabledLaws(t))

	res := e.RunErosionPass(context.Background())
	require.False(t, res.Skipped)
	assert.Equal(t, DefaultMaxTilesInList, res.Applied)
	require.Len(t, res.Changes, DefaultMaxTilesInList)
	assert.Equal(t, uint64(DefaultMaxTilesInList), w.ChangeCounter())
	assert.Equal(t, DefaultMaxTilesInList, res.RuleHits[RuleSandToShallow])

	seen := make(map[vec.Vec2]bool)
	for _, c := range res.Changes {
		assert.False(t, seen[c.Pos], "тайл %v изменён дважды", c.Pos)
		seen[c.Pos] = true
		assert.Equal(t, tiletype.SandID, c.From)
		assert.Equal(t, tiletype.ShallowWatersID, c.To)
		assert.Equal(t, tiletype.ShallowWatersID, w.Tile(c.Pos.X, c.Pos.Y).Type().ID)
	}
}

func TestRunErosionPass_ChangesComeFromSnapshot(t *testing.T) {
	w, err := world.NewWorldGenerator(11).Generate(64, 64)
	require.NoError(t, err)

	params := ResilienceParams()
	e, err := NewEroder(params, w, world.NewIslandsCalculator(w),
		util.NewTileNoise(util.NewPerlinNoise(11)), enabledLaws(t),
		WithRand(rand.New(rand.NewSource(3))), WithLogger(quietLogger()))
	require.NoError(t, err)

	for pass := 0; pass < 5; pass++ {
		before := snapshot(w)
		res := e.RunErosionPass(context.Background())

		assert.LessOrEqual(t, res.Applied, params.MaxTilesInList)

		seen := make(map[vec.Vec2]bool)
		for _, c := range res.Changes {
			assert.False(t, seen[c.Pos], "тайл %v изменён дважды", c.Pos)
			seen[c.Pos] = true
			assert.Equal(t, before[c.Pos], c.From, "исходный тип берётся из состояния на начало прохода")
			assert.Equal(t, c.To, w.Tile(c.Pos.X, c.Pos.Y).Type().ID)
		}
	}
}

func TestRunErosionPass_EmptyIsland(t *testing.T) {
	w := parseWorld(t, "~~")
	empty := world.NewIsland(0, tiletype.LayerGround, nil, rand.New(rand.NewSource(1)))

	e, err := NewEroder(ResilienceParams(), w, staticIslands{empty}, constNoise(0.3), enabledLaws(t),
		WithLogger(quietLogger()))
	require.NoError(t, err)

	res := e.RunErosionPass(context.Background())
	assert.False(t, res.Skipped)
	assert.Equal(t, ResilienceParams().SamplesPerIsland(), res.Samples)
	assert.Zero(t, res.WorldSamples)
	assert.Empty(t, res.Changes)
}

func TestRunErosionPass_OceanIslandsAreNotSampled(t *testing.T) {
	w := parseWorld(t,
		"~~~",
		"~~~",
	)
	e := newTestEroder(t, w, enabledLaws(t))

	res := e.RunErosionPass(context.Background())
	assert.Zero(t, res.Samples)
	assert.Empty(t, res.Changes)
}

func TestRunErosionPass_NotifiesObservers(t *testing.T) {
	w := stripedWorld(t, 10, 1)
	failing := &recordingObserver{err: errors.New("bus down")}
	ok := &recordingObserver{}
	e := newTestEroder(t, w, enabledLaws(t), WithObserver(failing), WithObserver(ok))

	res := e.RunErosionPass(context.Background())
	require.NotEmpty(t, res.Changes)

	assert.Equal(t, []uint64{1}, failing.ticks)
	assert.Equal(t, []uint64{1}, ok.ticks, "ошибка одного наблюдателя не мешает остальным")
	assert.Equal(t, res.Changes, ok.changes[0])
}

func TestRunErosionPass_TickAdvances(t *testing.T) {
	w := parseWorld(t, "ss")
	e := newTestEroder(t, w, enabledLaws(t))

	assert.Equal(t, uint64(1), e.RunErosionPass(context.Background()).Tick)
	assert.Equal(t, uint64(2), e.RunErosionPass(context.Background()).Tick)
}

func TestRunErosionPass_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	w := stripedWorld(t, 10, 1)
	e := newTestEroder(t, w, enabledLaws(t), WithTracer(tp.Tracer("test")))
	res := e.RunErosionPass(context.Background())

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "erosion.pass", ended[0].Name())

	attrs := make(map[string]int64)
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	assert.Equal(t, int64(1), attrs["erosion.tick"])
	assert.Equal(t, int64(res.Applied), attrs["erosion.applied"])
}

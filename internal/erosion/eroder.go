package erosion

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/world-resilience/internal/logging"
	"github.com/annel0/world-resilience/internal/metrics"
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
	"github.com/annel0/world-resilience/internal/worldlaw"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/world-resilience/internal/erosion"

// World описывает то, что проход эрозии использует у мира
type World interface {
	Mutator
	GetRandomTile() *world.Tile
}

// IslandIndex отдаёт острова, посчитанные владельцем мира
type IslandIndex interface {
	Islands() []*world.Island
}

// Noise выдаёт детерминированный когерентный шум по координатам тайла
type Noise interface {
	TileNoise(pos vec.Vec2, scale int) float64
}

// CommitObserver получает изменения каждого непустого прохода
type CommitObserver interface {
	OnCommit(ctx context.Context, tick uint64, changes []Change) error
}

// Result описывает итог одного прохода
type Result struct {
	Tick         uint64
	Skipped      bool // закон эрозии выключен
	Samples      int  // выборки с островов
	WorldSamples int  // выборки по всему миру
	Applied      int  // применённые изменения типа
	Grown        int  // выращенные биомы
	RuleHits     map[RuleID]int
	Changes      []Change
}

// Eroder выполняет проход эрозии. Не потокобезопасен: вызывается одним
// планировщиком раз в тик.
type Eroder struct {
	params    Params
	world     World
	islands   IslandIndex
	noise     Noise
	laws      *worldlaw.Laws
	rng       *rand.Rand
	batch     *Batch
	biomes    []*tiletype.TileType
	metrics   *metrics.ErosionMetrics
	observers []CommitObserver
	tracer    trace.Tracer
	logger    *logging.Logger
	tick      uint64
}

// Option настраивает Eroder
type Option func(*Eroder)

// WithRand задаёт генератор случайных чисел прохода (перемешивание островов, рост биомов)
func WithRand(rng *rand.Rand) Option {
	return func(e *Eroder) { e.rng = rng }
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *metrics.ErosionMetrics) Option {
	return func(e *Eroder) { e.metrics = m }
}

// WithObserver добавляет наблюдателя применённых изменений
func WithObserver(o CommitObserver) Option {
	return func(e *Eroder) { e.observers = append(e.observers, o) }
}

// WithLogger задаёт логгер
func WithLogger(l *logging.Logger) Option {
	return func(e *Eroder) { e.logger = l }
}

// WithTracer задаёт трассировщик OpenTelemetry
func WithTracer(t trace.Tracer) Option {
	return func(e *Eroder) { e.tracer = t }
}

// WithBiomePool заменяет пул биомов для роста
func WithBiomePool(pool []*tiletype.TileType) Option {
	return func(e *Eroder) { e.biomes = pool }
}

// NewEroder создаёт проход эрозии над миром и его индексом островов
func NewEroder(params Params, w World, islands IslandIndex, noise Noise, laws *worldlaw.Laws, opts ...Option) (*Eroder, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("параметры эрозии: %w", err)
	}
	if w == nil || islands == nil || noise == nil || laws == nil {
		return nil, fmt.Errorf("эрозии нужны мир, острова, шум и законы")
	}

	e := &Eroder{
		params:  params,
		world:   w,
		islands: islands,
		noise:   noise,
		laws:    laws,
		batch:   NewBatch(params.MaxTilesInList),
		biomes:  tiletype.BiomePool(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e, nil
}

// Params возвращает параметры прохода
func (e *Eroder) Params() Params { return e.params }

// RunErosionPass выполняет один проход: выборки с островов суши, каскад
// правил, выборки по миру для выравнивания океана, затем применение пакета.
// Все условия проверяются по состоянию мира на начало прохода.
func (e *Eroder) RunErosionPass(ctx context.Context) Result {
	e.tick++
	res := Result{Tick: e.tick}

	if !e.laws.IsEnabled(worldlaw.Erosion) {
		res.Skipped = true
		e.metrics.ObservePass(metrics.OutcomeSkipped, 0, 0)
		return res
	}

	ctx, span := e.tracer.Start(ctx, "erosion.pass", trace.WithAttributes(attribute.Int64("erosion.tick", int64(e.tick))))
	defer span.End()
	start := time.Now()

	e.batch.Reset()
	pc := &passContext{
		params: e.params,
		world:  e.world,
		noise:  e.noise,
		batch:  e.batch,
		rng:    e.rng,
		biomes: e.biomes,
		hits:   make(map[RuleID]int),
	}

	for _, isl := range e.shuffledIslands() {
		if e.batch.Full() {
			break
		}
		if isl.Layer != tiletype.LayerGround {
			continue
		}
		pc.sampleIsland(isl)
	}

	res.Samples = pc.samples
	res.WorldSamples = pc.worldSamples
	res.RuleHits = pc.hits
	res.Applied = e.batch.Len()
	res.Grown = e.batch.GrowthLen()

	res.Changes = e.batch.Commit(e.world, e.params.Effect)

	outcome := metrics.OutcomeEmpty
	if len(res.Changes) > 0 {
		outcome = metrics.OutcomeCommitted
	}
	e.metrics.ObservePass(outcome, time.Since(start), res.Applied)
	e.metrics.ObserveMutations(ChangeTerraform.String(), res.Applied)
	e.metrics.ObserveMutations(ChangeBiomeGrowth.String(), res.Grown)
	for id, n := range res.RuleHits {
		e.metrics.ObserveRuleHits(string(id), n)
	}

	span.SetAttributes(
		attribute.Int("erosion.samples", res.Samples),
		attribute.Int("erosion.applied", res.Applied),
		attribute.Int("erosion.grown", res.Grown),
	)

	if len(res.Changes) == 0 {
		return res
	}

	e.logger.Debug("Тик %d: применено %d изменений, выращено %d биомов (выборок %d/%d)",
		res.Tick, res.Applied, res.Grown, res.Samples, res.WorldSamples)

	for _, o := range e.observers {
		if err := o.OnCommit(ctx, res.Tick, res.Changes); err != nil {
			e.logger.Warn("Наблюдатель эрозии вернул ошибку на тике %d: %v", res.Tick, err)
			span.RecordError(err)
		}
	}
	return res
}

// shuffledIslands возвращает острова в случайном порядке, не трогая индекс
func (e *Eroder) shuffledIslands() []*world.Island {
	src := e.islands.Islands()
	islands := make([]*world.Island, len(src))
	copy(islands, src)
	e.rng.Shuffle(len(islands), func(i, j int) {
		islands[i], islands[j] = islands[j], islands[i]
	})
	return islands
}

package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/annel0/world-resilience/internal/erosion"
	"github.com/annel0/world-resilience/internal/logging"
)

// Pass выполняет один проход симуляции за тик
type Pass interface {
	RunErosionPass(ctx context.Context) erosion.Result
}

// IslandRecalculator пересчитывает острова после изменения топологии
type IslandRecalculator interface {
	Dirty() bool
	Recalculate()
}

// Stats собирает агрегированные итоги работы движка
type Stats struct {
	Ticks       uint64
	Skipped     uint64
	Changes     uint64
	Recomputes  uint64
	LastTick    uint64
	LastChanges int
}

// Engine вызывает проход эрозии раз в тик и держит индекс островов свежим.
type Engine struct {
	pass     Pass
	islands  IslandRecalculator
	interval time.Duration
	maxTicks uint64
	logger   *logging.Logger

	mu    sync.RWMutex
	stats Stats
}

// New создаёт движок. При maxTicks == 0 число тиков не ограничено.
func New(pass Pass, islands IslandRecalculator, interval time.Duration, maxTicks uint64, logger *logging.Logger) (*Engine, error) {
	if pass == nil || islands == nil {
		return nil, errors.New("engine: нужны проход и индекс островов")
	}
	if interval <= 0 {
		return nil, errors.New("engine: интервал тика должен быть > 0")
	}
	if logger == nil {
		logger = logging.GetEngineLogger()
	}
	return &Engine{
		pass:     pass,
		islands:  islands,
		interval: interval,
		maxTicks: maxTicks,
		logger:   logger,
	}, nil
}

// Run крутит тики до отмены контекста или до maxTicks.
// Возвращает nil при штатном завершении.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("⏱️ Движок запущен: тик %v, лимит %d", e.interval, e.maxTicks)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Движок остановлен после %d тиков", e.Stats().Ticks)
			return nil
		case <-ticker.C:
			e.tick(ctx)
			if e.maxTicks > 0 && e.Stats().Ticks >= e.maxTicks {
				e.logger.Info("Достигнут лимит тиков %d", e.maxTicks)
				return nil
			}
		}
	}
}

// Step синхронно выполняет n тиков и возвращает их результаты
func (e *Engine) Step(ctx context.Context, n int) []erosion.Result {
	results := make([]erosion.Result, 0, n)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		results = append(results, e.tick(ctx))
	}
	return results
}

// Stats возвращает копию статистики
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// tick: пересчёт островов при необходимости, затем проход
func (e *Engine) tick(ctx context.Context) erosion.Result {
	recomputed := false
	if e.islands.Dirty() {
		e.islands.Recalculate()
		recomputed = true
	}

	res := e.pass.RunErosionPass(ctx)

	e.mu.Lock()
	e.stats.Ticks++
	e.stats.LastTick = res.Tick
	e.stats.LastChanges = len(res.Changes)
	e.stats.Changes += uint64(len(res.Changes))
	if res.Skipped {
		e.stats.Skipped++
	}
	if recomputed {
		e.stats.Recomputes++
	}
	e.mu.Unlock()

	return res
}

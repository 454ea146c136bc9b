package erosion

import (
	"math/rand"

	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// passContext хранит состояние одного прохода
type passContext struct {
	params Params
	world  World
	noise  Noise
	batch  *Batch
	rng    *rand.Rand
	biomes []*tiletype.TileType

	hits         map[RuleID]int
	samples      int
	worldSamples int
}

// sampleIsland опрашивает остров, пока не исчерпан лимит выборок или пакет не заполнен
func (pc *passContext) sampleIsland(isl *world.Island) {
	limit := pc.params.SamplesPerIsland()
	for j := 0; j < limit && !pc.batch.Full(); j++ {
		pc.samples++
		t := isl.GetRandomTile()
		if t == nil || pc.batch.Contains(t) {
			continue
		}
		if pc.evaluateIsland(t) || pc.batch.Full() {
			continue
		}

		// Ничего не произошло: берём случайный тайл всего мира и выравниваем океан
		pc.worldSamples++
		wt := pc.world.GetRandomTile()
		if wt == nil || pc.batch.Contains(wt) {
			continue
		}
		pc.evaluateOcean(wt)
	}
}

// evaluateIsland прогоняет островной каскад. Возвращает true только если сработало
// завершающее правило: срабатывание правила с Continue само по себе не отменяет
// выборку по миру.
func (pc *passContext) evaluateIsland(t *world.Tile) bool {
	s := &sample{tile: t}
	for _, r := range IslandRules {
		if !r.Fire(pc, s) {
			continue
		}
		pc.hits[r.ID]++
		if !r.Continue {
			return true
		}
	}
	return false
}

// evaluateOcean прогоняет океанский каскад для тайла из выборки по миру
func (pc *passContext) evaluateOcean(t *world.Tile) bool {
	s := &sample{tile: t, mustBeShallow: pc.mustBeShallowWater(t)}
	for _, r := range OceanRules {
		if r.Fire(pc, s) {
			pc.hits[r.ID]++
			return true
		}
	}
	return false
}

// mustBeShallowWater: океан у поверхности, не слишком далеко от суши
func (pc *passContext) mustBeShallowWater(t *world.Tile) bool {
	if !t.Type().Ocean {
		return false
	}
	minNear := 2
	if pc.noise.TileNoise(t.Pos, 2) < pc.params.ShallowNoiseThreshold {
		minNear = 1
	}
	return RespectConditionAround(t, isShallowOrGround, minNear) &&
		!RespectConditionInDistance(t, isOcean, 3)
}

// expansionThreshold: сколько соседей-суши нужно мелководью, чтобы стать песком
func (pc *passContext) expansionThreshold(t *world.Tile) int {
	n := pc.noise.TileNoise(t.Pos, 3)
	switch {
	case n < pc.params.ExpansionNoiseLow:
		return 1
	case n < pc.params.ExpansionNoiseHigh:
		return 2
	default:
		return 3
	}
}

// dirtFor выбирает подтип почвы по шуму
func (pc *passContext) dirtFor(t *world.Tile) tiletype.TypeID {
	if pc.noise.TileNoise(t.Pos, 4) > pc.params.DirtNoiseSplit {
		return tiletype.SoilLowID
	}
	return tiletype.SoilHighID
}

func (pc *passContext) propose(t *world.Tile, id tiletype.TypeID) bool {
	return pc.batch.Propose(t, tiletype.MustGet(id))
}

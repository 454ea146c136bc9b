package erosion

import (
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// Predicate проверяет условие над тайлом
type Predicate func(t *world.Tile) bool

// RespectConditionAround возвращает true, если хотя бы minCount соседей тайла
// удовлетворяют условию. Если соседей меньше minCount, результат false.
func RespectConditionAround(t *world.Tile, pred Predicate, minCount int) bool {
	count := 0
	for _, n := range t.Neighbours() {
		if pred(n) {
			count++
			if count >= minCount {
				return true
			}
		}
	}
	return count >= minCount
}

// RespectConditionInDistance возвращает true, если условию удовлетворяют все
// соседи и, пока distance > 0, рекурсивно все соседи соседей с distance-1.
// distance 0 проверяет только непосредственных соседей.
func RespectConditionInDistance(t *world.Tile, pred Predicate, distance int) bool {
	for _, n := range t.Neighbours() {
		if !pred(n) || (distance > 0 && !RespectConditionInDistance(n, pred, distance-1)) {
			return false
		}
	}
	return true
}

func isOcean(t *world.Tile) bool    { return t.Type().Ocean }
func isNotOcean(t *world.Tile) bool { return !t.Type().Ocean }
func isGround(t *world.Tile) bool   { return t.Type().Ground }
func isNotSand(t *world.Tile) bool  { return !t.Type().Sand }
func isGrass(t *world.Tile) bool    { return t.Type().Grass }

func isGroundLayer(t *world.Tile) bool {
	return t.Type().Layer == tiletype.LayerGround
}

func isBiomeOrGrass(t *world.Tile) bool {
	tt := t.Type()
	return tt.CanBeBiome || tt.Grass
}

func isCloseOcean(t *world.Tile) bool { return t.Type().Is(tiletype.CloseOceanID) }
func isDeepOcean(t *world.Tile) bool  { return t.Type().Is(tiletype.DeepOceanID) }

func isShallowOrGround(t *world.Tile) bool {
	tt := t.Type()
	return tt.Is(tiletype.ShallowWatersID) || tt.Ground
}

// isNotDeepWater: не прибрежный и не глубокий океан
func isNotDeepWater(t *world.Tile) bool {
	tt := t.Type()
	return !(tt.Ocean && (tt.Is(tiletype.CloseOceanID) || tt.Is(tiletype.DeepOceanID)))
}

// isBareSoil: почва, на которой может вырасти биом, но его ещё нет
func isBareSoil(t *world.Tile) bool {
	tt := t.Type()
	return !tt.IsBiome && tt.CanBeBiome
}

// isOceanAround: есть хотя бы один сосед-океан
func isOceanAround(t *world.Tile) bool {
	return RespectConditionAround(t, isOcean, 1)
}

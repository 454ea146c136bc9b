package world

import (
	"math/rand"

	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// Island описывает максимальную связную область тайлов одного слоя
type Island struct {
	ID    int
	Layer tiletype.LayerType
	tiles []*Tile
	rng   *rand.Rand
}

// NewIsland создаёт остров из готового набора тайлов
func NewIsland(id int, layer tiletype.LayerType, tiles []*Tile, rng *rand.Rand) *Island {
	return &Island{ID: id, Layer: layer, tiles: tiles, rng: rng}
}

// Size возвращает количество тайлов острова
func (i *Island) Size() int { return len(i.tiles) }

// Tiles возвращает тайлы острова
func (i *Island) Tiles() []*Tile { return i.tiles }

// GetRandomTile возвращает случайный тайл острова или nil для пустого острова
func (i *Island) GetRandomTile() *Tile {
	if len(i.tiles) == 0 {
		return nil
	}
	return i.tiles[i.rng.Intn(len(i.tiles))]
}

// IslandsCalculator разбивает мир на острова по типу слоя.
// Пересчёт выполняет владелец мира при изменении топологии.
type IslandsCalculator struct {
	world      *World
	islands    []*Island
	computedAt uint64
	computed   bool
}

// NewIslandsCalculator создаёт калькулятор и сразу считает острова
func NewIslandsCalculator(w *World) *IslandsCalculator {
	ic := &IslandsCalculator{world: w}
	ic.Recalculate()
	return ic
}

// Islands возвращает острова последнего пересчёта
func (ic *IslandsCalculator) Islands() []*Island {
	return ic.islands
}

// Dirty сообщает, менялся ли мир после последнего пересчёта
func (ic *IslandsCalculator) Dirty() bool {
	return !ic.computed || ic.world.ChangeCounter() != ic.computedAt
}

// Recalculate заново находит 8-связные компоненты одного слоя (обход в ширину)
func (ic *IslandsCalculator) Recalculate() {
	tiles := ic.world.Tiles()
	visited := make([]bool, len(tiles))
	islands := make([]*Island, 0)
	queue := make([]*Tile, 0, 64)

	for _, start := range tiles {
		if visited[start.index] {
			continue
		}
		layer := start.typ.Layer
		members := make([]*Tile, 0, 16)

		visited[start.index] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)

			for _, n := range cur.neighbours {
				if visited[n.index] || n.typ.Layer != layer {
					continue
				}
				visited[n.index] = true
				queue = append(queue, n)
			}
		}

		islands = append(islands, NewIsland(len(islands), layer, members, ic.world.rng))
	}

	ic.islands = islands
	ic.computedAt = ic.world.ChangeCounter()
	ic.computed = true
}

package world

import (
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// Tile описывает атомарную клетку карты. Координаты и соседи фиксируются при
// создании мира; меняется только тип, и только через World.
type Tile struct {
	Pos        vec.Vec2
	index      int
	typ        *tiletype.TileType
	neighbours []*Tile
}

// Type возвращает текущий тип тайла
func (t *Tile) Type() *tiletype.TileType {
	return t.typ
}

// Neighbours возвращает соседей тайла (до 8, меньше на краю карты)
func (t *Tile) Neighbours() []*Tile {
	return t.neighbours
}

// X возвращает координату X
func (t *Tile) X() int { return t.Pos.X }

// Y возвращает координату Y
func (t *Tile) Y() int { return t.Pos.Y }

package erosion

import (
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// ChangeKind задаёт вид применённого изменения
type ChangeKind uint8

const (
	ChangeTerraform   ChangeKind = iota // изменение типа из пакета
	ChangeBiomeGrowth                   // выращивание биома вне пакета
)

// String возвращает имя вида изменения
func (k ChangeKind) String() string {
	switch k {
	case ChangeTerraform:
		return "terraform"
	case ChangeBiomeGrowth:
		return "growth"
	default:
		return "unknown"
	}
}

// Change описывает одно применённое изменение тайла
type Change struct {
	Pos  vec.Vec2
	From tiletype.TypeID
	To   tiletype.TypeID
	Kind ChangeKind
}

// Mutator применяет изменения к миру
type Mutator interface {
	ApplyTileType(t *world.Tile, typ *tiletype.TileType, effect string)
	GrowBiome(t *world.Tile, biome *tiletype.TileType)
}

type pending struct {
	tile *world.Tile
	typ  *tiletype.TileType
}

// Batch накапливает предложенные изменения тайлов за проход.
// Каждый тайл входит не более одного раза; изменения типа ограничены max,
// запросы на рост биома лимитом не считаются. Batch принадлежит одному
// Eroder и переиспользуется между тиками: перед проходом вызывается Reset.
type Batch struct {
	max     int
	members map[*world.Tile]struct{}
	entries []pending
	growth  []pending
}

// NewBatch создаёт пакет с пределом max
func NewBatch(max int) *Batch {
	return &Batch{
		max:     max,
		members: make(map[*world.Tile]struct{}, max),
		entries: make([]pending, 0, max),
	}
}

// Reset очищает пакет, сохраняя выделенную память
func (b *Batch) Reset() {
	clear(b.members)
	b.entries = b.entries[:0]
	b.growth = b.growth[:0]
}

// Cap возвращает предел пакета
func (b *Batch) Cap() int { return b.max }

// Len возвращает количество изменений типа в пакете
func (b *Batch) Len() int { return len(b.entries) }

// GrowthLen возвращает количество запросов на рост биома
func (b *Batch) GrowthLen() int { return len(b.growth) }

// Full сообщает, достигнут ли предел
func (b *Batch) Full() bool { return len(b.entries) >= b.max }

// Contains сообщает, есть ли уже тайл в пакете
func (b *Batch) Contains(t *world.Tile) bool {
	_, ok := b.members[t]
	return ok
}

// Propose добавляет изменение, если тайла ещё нет и предел не достигнут
func (b *Batch) Propose(t *world.Tile, typ *tiletype.TileType) bool {
	if t == nil || typ == nil || b.Full() || b.Contains(t) {
		return false
	}
	b.members[t] = struct{}{}
	b.entries = append(b.entries, pending{tile: t, typ: typ})
	return true
}

// ProposeGrowth добавляет запрос на рост биома вне лимита пакета.
// Рост не применяется к миру сразу, а откладывается до Commit и выполняется
// после изменений типа: до коммита все правила прохода видят один и тот же
// снимок мира.
func (b *Batch) ProposeGrowth(t *world.Tile, biome *tiletype.TileType) bool {
	if t == nil || biome == nil || b.Contains(t) {
		return false
	}
	b.members[t] = struct{}{}
	b.growth = append(b.growth, pending{tile: t, typ: biome})
	return true
}

// Pending возвращает предложенные изменения относительно текущего состояния мира
func (b *Batch) Pending() []Change {
	out := make([]Change, 0, len(b.entries)+len(b.growth))
	for _, p := range b.entries {
		out = append(out, Change{Pos: p.tile.Pos, From: p.tile.Type().ID, To: p.typ.ID, Kind: ChangeTerraform})
	}
	for _, p := range b.growth {
		out = append(out, Change{Pos: p.tile.Pos, From: p.tile.Type().ID, To: p.typ.ID, Kind: ChangeBiomeGrowth})
	}
	return out
}

// Commit применяет изменения в порядке добавления, затем рост биомов,
// и очищает пакет. Пустой пакет ничего не делает.
func (b *Batch) Commit(m Mutator, effect string) []Change {
	if len(b.entries) == 0 && len(b.growth) == 0 {
		return nil
	}
	changes := b.Pending()

	for _, p := range b.entries {
		m.ApplyTileType(p.tile, p.typ, effect)
	}
	for _, p := range b.growth {
		m.GrowBiome(p.tile, p.typ)
	}

	b.Reset()
	return changes
}

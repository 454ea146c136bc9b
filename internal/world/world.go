package world

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// Эффекты, сопровождающие изменение тайла
const (
	EffectNone  = ""
	EffectFlash = "flash"
	EffectGrow  = "grow"
)

// TerraformEvent описывает одно применённое изменение типа тайла
type TerraformEvent struct {
	Pos    vec.Vec2
	From   tiletype.TypeID
	To     tiletype.TypeID
	Effect string
}

// TerraformListener получает уведомления о каждом изменении тайла
type TerraformListener func(ev TerraformEvent)

// World владеет всеми тайлами карты и является единственной точкой их мутации.
// Мир не потокобезопасен: его читает и изменяет один тиковый цикл.
type World struct {
	width     int
	height    int
	tiles     []*Tile
	rng       *rand.Rand
	changes   atomic.Uint64 // счётчик применённых изменений типов
	listeners []TerraformListener
}

// NewWorld создаёт мир width x height, заполненный типом fill.
// seed определяет последовательность случайных выборок тайлов.
func NewWorld(width, height int, fill tiletype.TypeID, seed int64) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("некорректный размер мира %dx%d", width, height)
	}
	fillType, ok := tiletype.Get(fill)
	if !ok {
		return nil, fmt.Errorf("неизвестный тип заполнения %d", fill)
	}

	w := &World{
		width:  width,
		height: height,
		tiles:  make([]*Tile, width*height),
		rng:    rand.New(rand.NewSource(seed)),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			w.tiles[idx] = &Tile{Pos: vec.Vec2{X: x, Y: y}, index: idx, typ: fillType}
		}
	}

	// Соседи вычисляются один раз: топология сетки не меняется
	for _, t := range w.tiles {
		t.neighbours = make([]*Tile, 0, len(vec.Neighbour8))
		for _, off := range vec.Neighbour8 {
			p := t.Pos.Add(off)
			if p.InBounds(width, height) {
				t.neighbours = append(t.neighbours, w.tiles[p.Y*width+p.X])
			}
		}
	}

	return w, nil
}

// Width возвращает ширину мира
func (w *World) Width() int { return w.width }

// Height возвращает высоту мира
func (w *World) Height() int { return w.height }

// Tiles возвращает все тайлы в порядке строк
func (w *World) Tiles() []*Tile { return w.tiles }

// Tile возвращает тайл по координатам или nil за пределами карты
func (w *World) Tile(x, y int) *Tile {
	if !(vec.Vec2{X: x, Y: y}).InBounds(w.width, w.height) {
		return nil
	}
	return w.tiles[y*w.width+x]
}

// Rand возвращает общий генератор случайных чисел мира

// GetRandomTile возвращает равномерно выбранный тайл всей карты
func (w *World) GetRandomTile() *Tile {
	if len(w.tiles) == 0 {
		return nil
	}
	return w.tiles[w.rng.Intn(len(w.tiles))]
}

// AddListener подписывает обработчик на изменения тайлов
func (w *World) AddListener(l TerraformListener) {
	w.listeners = append(w.listeners, l)
}

// ChangeCounter возвращает количество изменений типов с момента создания
func (w *World) ChangeCounter() uint64 {
	return w.changes.Load()
}

// SetTileType задаёт тип тайла при генерации или настройке сцены.
// В отличие от ApplyTileType не рассылает событий.
func (w *World) SetTileType(pos vec.Vec2, id tiletype.TypeID) error {
	t := w.Tile(pos.X, pos.Y)
	if t == nil {
		return fmt.Errorf("позиция %v вне карты", pos)
	}
	typ, ok := tiletype.Get(id)
	if !ok {
		return fmt.Errorf("неизвестный тип тайла %d", id)
	}
	if t.typ != typ {
		t.typ = typ
		w.changes.Add(1)
	}
	return nil
}

// ApplyTileType служит единой точкой терраформирования: меняет тип тайла и
// уведомляет подписчиков с указанным визуальным эффектом.
func (w *World) ApplyTileType(t *Tile, typ *tiletype.TileType, effect string) {
	if t == nil || typ == nil || t.typ == typ {
		return
	}
	from := t.typ
	t.typ = typ
	w.changes.Add(1)
	w.notify(TerraformEvent{Pos: t.Pos, From: from.ID, To: typ.ID, Effect: effect})
}

// GrowBiome выращивает биом на тайле
func (w *World) GrowBiome(t *Tile, biome *tiletype.TileType) {
	if biome == nil || !biome.IsBiome {
		return
	}
	w.ApplyTileType(t, biome, EffectGrow)
}

// CountByType возвращает распределение тайлов по типам
func (w *World) CountByType() map[tiletype.TypeID]int {
	counts := make(map[tiletype.TypeID]int)
	for _, t := range w.tiles {
		counts[t.typ.ID]++
	}
	return counts
}

func (w *World) notify(ev TerraformEvent) {
	for _, l := range w.listeners {
		l(ev)
	}
}

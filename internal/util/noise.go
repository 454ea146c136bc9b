package util

import (
	"fmt"
	"math"

	"github.com/annel0/world-resilience/internal/vec"
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Параметры генератора Перлина
const (
	perlinAlpha   = 2.0      // Сглаживание шума
	perlinBeta    = 2.0      // Частота шума
	perlinOctaves = int32(3) // Количество октав
)

// Имена поддерживаемых бэкендов шума
const (
	BackendPerlin  = "perlin"
	BackendSimplex = "simplex"
)

// Noise2D выдаёт когерентный 2D шум со значениями в [0,1)
type Noise2D interface {
	Noise2D(x, y float64) float64
}

// PerlinNoise оборачивает генератор Перлина и нормализует его выход
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise создаёт генератор шума Перлина с указанным сидом
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Noise2D возвращает значение шума (от 0 до 1, не включая 1)
func (n *PerlinNoise) Noise2D(x, y float64) float64 {
	// Шум Перлина лежит примерно в [-1, 1]
	return clampUnit((n.p.Noise2D(x, y) + 1.0) / 2.0)
}

// SimplexNoise реализует альтернативный бэкенд на OpenSimplex
type SimplexNoise struct {
	n opensimplex.Noise
}

// NewSimplexNoise создаёт нормализованный генератор OpenSimplex
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{n: opensimplex.NewNormalized(seed)}
}

// Noise2D возвращает значение шума в [0,1)
func (n *SimplexNoise) Noise2D(x, y float64) float64 {
	return clampUnit(n.n.Eval2(x, y))
}

// NewNoise создаёт генератор по имени бэкенда ("" означает perlin)
func NewNoise(backend string, seed int64) (Noise2D, error) {
	switch backend {
	case "", BackendPerlin:
		return NewPerlinNoise(seed), nil
	case BackendSimplex:
		return NewSimplexNoise(seed), nil
	default:
		return nil, fmt.Errorf("неизвестный бэкенд шума %q", backend)
	}
}

// TileNoise привязывает источник шума к координатам тайлов
type TileNoise struct {
	src Noise2D
}

// NewTileNoise создаёт провайдер шума для тайлов
func NewTileNoise(src Noise2D) *TileNoise {
	return &TileNoise{src: src}
}

// TileNoise возвращает шум в точке (x/scale, y/scale). Чем больше scale,
// тем крупнее пятна. scale <= 0 трактуется как 1.
func (t *TileNoise) TileNoise(pos vec.Vec2, scale int) float64 {
	if scale <= 0 {
		scale = 1
	}
	s := float64(scale)
	return t.src.Noise2D(float64(pos.X)/s, float64(pos.Y)/s)
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}

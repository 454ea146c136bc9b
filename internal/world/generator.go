package world

import (
	"math/rand"
	"unicode/utf8"

	"github.com/annel0/world-resilience/internal/util"
	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world/tiletype"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Пороговые высоты для генерации (нормализованная высота 0..1)
const (
	DeepOceanMax  = 0.36 // Ниже - глубокий океан
	CloseOceanMax = 0.43 // Ниже - прибрежный океан
	ShallowMax    = 0.47 // Ниже - мелководье
	BeachMax      = 0.50 // Ниже - песок
	HillsStart    = 0.68 // Выше - холмы
	MountainStart = 0.76 // Выше - горы
)

// WorldGenerator генерирует начальный ландшафт, который затем размывает эрозия
type WorldGenerator struct {
	Seed           int64   // Сид для генерации шума
	ElevationScale float64 // Частота шума высот
	MoistureScale  float64 // Частота шума влажности
	Octaves        int     // Количество октав высот
	Persistence    float64 // Затухание амплитуды между октавами
}

// NewWorldGenerator создаёт генератор с настройками по умолчанию
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:           seed,
		ElevationScale: 0.03, // Настройка размера континентов
		MoistureScale:  0.05, // Настройка размера биомов
		Octaves:        4,
		Persistence:    0.5,
	}
}

// Generate создаёт мир указанного размера
func (wg *WorldGenerator) Generate(width, height int) (*World, error) {
	w, err := NewWorld(width, height, tiletype.DeepOceanID, wg.Seed)
	if err != nil {
		return nil, err
	}

	elevation := opensimplex.NewNormalized(wg.Seed)
	moisture := util.NewPerlinNoise(wg.Seed + 42)
	rng := rand.New(rand.NewSource(wg.Seed))

	for _, t := range w.Tiles() {
		h := octaveNoise(elevation, float64(t.Pos.X), float64(t.Pos.Y), wg.Octaves, wg.ElevationScale, wg.Persistence)
		m := moisture.Noise2D(float64(t.Pos.X)*wg.MoistureScale, float64(t.Pos.Y)*wg.MoistureScale)

		id := wg.typeForHeight(h, m, rng)
		if err := w.SetTileType(t.Pos, id); err != nil {
			return nil, err
		}
	}

	// Генерация не считается изменением мира
	w.changes.Store(0)
	return w, nil
}

// typeForHeight выбирает тип тайла по высоте и влажности
func (wg *WorldGenerator) typeForHeight(h, moisture float64, rng *rand.Rand) tiletype.TypeID {
	switch {
	case h < DeepOceanMax:
		return tiletype.DeepOceanID
	case h < CloseOceanMax:
		return tiletype.CloseOceanID
	case h < ShallowMax:
		return tiletype.ShallowWatersID
	case h < BeachMax:
		return tiletype.SandID
	case h < HillsStart:
		return wg.typeForLowland(moisture, rng)
	case h < MountainStart:
		return tiletype.HillsID
	default:
		return tiletype.MountainsID
	}
}

// typeForLowland выбирает биом или голую почву для равнин
func (wg *WorldGenerator) typeForLowland(moisture float64, rng *rand.Rand) tiletype.TypeID {
	switch {
	case moisture < 0.3:
		if rng.Float64() < 0.5 {
			return tiletype.WastelandID
		}
		return tiletype.SavannaID
	case moisture > 0.72:
		if rng.Float64() < 0.3 {
			return tiletype.SwampID
		}
		return tiletype.JungleID
	case rng.Float64() < 0.15:
		// Проплешины без биома
		if moisture < 0.5 {
			return tiletype.SoilHighID
		}
		return tiletype.SoilLowID
	default:
		return tiletype.GrassID
	}
}

// octaveNoise накладывает несколько частот шума (фрактальный шум)
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// ParseTypeGrid строит мир из ASCII-схемы (строки одинаковой длины).
// Используется сценариями и тестами.
func ParseTypeGrid(rows []string, legend map[rune]tiletype.TypeID, seed int64) (*World, error) {
	if len(rows) == 0 {
		return nil, errEmptyGrid
	}
	w, err := NewWorld(utf8.RuneCountInString(rows[0]), len(rows), tiletype.DeepOceanID, seed)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		glyphs := []rune(row)
		if len(glyphs) != w.width {
			return nil, errRaggedGrid
		}
		for x, ch := range glyphs {
			id, ok := legend[ch]
			if !ok {
				return nil, errUnknownGlyph
			}
			if err := w.SetTileType(vec.Vec2{X: x, Y: y}, id); err != nil {
				return nil, err
			}
		}
	}
	w.changes.Store(0)
	return w, nil
}

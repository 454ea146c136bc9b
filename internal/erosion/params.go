package erosion

import (
	"errors"
	"fmt"

	"github.com/annel0/world-resilience/internal/world"
)

// DefaultMaxTilesInList ограничивает размер пакета изменений за один проход
const DefaultMaxTilesInList = 50

// Варианты набора правил
const (
	VariantResilience = "resilience"
	VariantClassic    = "classic"
)

// Params собирает настраиваемые константы каскада правил
type Params struct {
	// MaxTilesInList ограничивает количество изменений в пакете
	MaxTilesInList int
	// SamplingMultiplier: остров опрашивается до MaxTilesInList*SamplingMultiplier раз
	SamplingMultiplier int

	// Пороги шума (масштаб 3) для роста песка на мелководье: ниже Low нужен
	// 1 сосед-суша, ниже High 2, иначе 3
	ExpansionNoiseLow  float64
	ExpansionNoiseHigh float64

	// ShallowNoiseThreshold: при шуме (масштаб 2) ниже порога достаточно одного
	// соседа-мелководья или суши, иначе нужно два
	ShallowNoiseThreshold float64

	// DirtNoiseSplit: шум (масштаб 4) выше порога даёт soil_low, иначе soil_high
	DirtNoiseSplit float64

	// Редкое выращивание биома на голой почве
	BiomeGrowth       bool
	BiomeGrowthChance float64
	// BiomeGrowthDistance: в скольких кольцах (distance+1) вокруг почвы не должно быть океана
	BiomeGrowthDistance int

	// Effect передаётся миру вместе с каждым изменением пакета
	Effect string
}

// ResilienceParams возвращает полный набор правил (вариант по умолчанию)
func ResilienceParams() Params {
	return Params{
		MaxTilesInList:        DefaultMaxTilesInList,
		SamplingMultiplier:    3,
		ExpansionNoiseLow:     0.4,
		ExpansionNoiseHigh:    0.85,
		ShallowNoiseThreshold: 0.7,
		DirtNoiseSplit:        0.5,
		BiomeGrowth:           true,
		BiomeGrowthChance:     0.001,
		BiomeGrowthDistance:   2,
		Effect:                world.EffectFlash,
	}
}

// ClassicParams возвращает ранний вариант с меньшим числом выборок и без роста биомов
func ClassicParams() Params {
	p := ResilienceParams()
	p.SamplingMultiplier = 2
	p.ExpansionNoiseLow = 0.2
	p.ExpansionNoiseHigh = 0.7
	p.BiomeGrowth = false
	return p
}

// ParamsForVariant возвращает пресет по имени (пустое имя означает resilience)
func ParamsForVariant(name string) (Params, error) {
	switch name {
	case "", VariantResilience:
		return ResilienceParams(), nil
	case VariantClassic:
		return ClassicParams(), nil
	default:
		return Params{}, fmt.Errorf("неизвестный вариант эрозии %q", name)
	}
}

// SamplesPerIsland возвращает лимит выборок на один остров
func (p Params) SamplesPerIsland() int {
	return p.MaxTilesInList * p.SamplingMultiplier
}

// Validate проверяет согласованность параметров
func (p Params) Validate() error {
	var errs []error
	if p.MaxTilesInList <= 0 {
		errs = append(errs, fmt.Errorf("max_tiles_in_list должен быть > 0, получено %d", p.MaxTilesInList))
	}
	if p.SamplingMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("sampling_multiplier должен быть > 0, получено %d", p.SamplingMultiplier))
	}
	if p.ExpansionNoiseLow > p.ExpansionNoiseHigh {
		errs = append(errs, fmt.Errorf("expansion_noise_low (%.2f) больше expansion_noise_high (%.2f)", p.ExpansionNoiseLow, p.ExpansionNoiseHigh))
	}
	if p.BiomeGrowthChance < 0 || p.BiomeGrowthChance > 1 {
		errs = append(errs, fmt.Errorf("biome_growth_chance вне [0,1]: %.4f", p.BiomeGrowthChance))
	}
	if p.BiomeGrowthDistance < 0 {
		errs = append(errs, fmt.Errorf("biome_growth_distance отрицателен: %d", p.BiomeGrowthDistance))
	}
	return errors.Join(errs...)
}

package erosion

import (
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
)

// RuleID задаёт стабильное имя правила каскада
type RuleID string

// Правила островной фазы
const (
	RuleRockToSoil      RuleID = "rock_to_soil"
	RuleGrassToSand     RuleID = "grass_to_sand"
	RuleSandToShallow   RuleID = "sand_to_shallow"
	RuleCoastToSand     RuleID = "coast_to_sand"
	RuleSandToDirt      RuleID = "sand_to_dirt"
	RuleWastelandToDirt RuleID = "wasteland_to_dirt"
	RuleDirtToBiome     RuleID = "dirt_to_biome"
)

// Правила океанской фазы (выборка по всему миру)
const (
	RuleOceanToShallow RuleID = "ocean_to_shallow"
	RuleOceanToClose   RuleID = "ocean_to_close"
	RuleOceanToDeep    RuleID = "ocean_to_deep"
	RuleShallowToClose RuleID = "shallow_to_close"
)

// sample хранит тайл, который оценивает каскад
type sample struct {
	tile          *world.Tile
	mustBeShallow bool
}

// Rule объединяет условие и действие. Fire возвращает true, если правило сработало
// (изменение принято в пакет).
type Rule struct {
	ID RuleID
	// Continue: правило меняет соседний тайл, поэтому каскад для выборки
	// продолжается после срабатывания
	Continue bool
	Fire     func(pc *passContext, s *sample) bool
}

// IslandRules задаёт каскад для выборок с островов суши в порядке приоритета
var IslandRules = []Rule{
	{ID: RuleRockToSoil, Fire: fireRockToSoil},
	{ID: RuleGrassToSand, Fire: fireGrassToSand},
	{ID: RuleSandToShallow, Fire: fireSandToShallow},
	{ID: RuleCoastToSand, Continue: true, Fire: fireCoastToSand},
	{ID: RuleSandToDirt, Fire: fireSandToDirt},
	{ID: RuleWastelandToDirt, Fire: fireWastelandToDirt},
	{ID: RuleDirtToBiome, Fire: fireDirtToBiome},
}

// OceanRules задаёт каскад для выборок по всему миру, когда островные правила
// не сработали. Углубление прибрежного океана до глубокого намеренно
// отсутствует: проверка на расстоянии 8 слишком дорогая.
var OceanRules = []Rule{
	{ID: RuleOceanToShallow, Fire: fireOceanToShallow},
	{ID: RuleOceanToClose, Fire: fireOceanToClose},
	{ID: RuleOceanToDeep, Fire: fireOceanToDeep},
	{ID: RuleShallowToClose, Fire: fireShallowToClose},
}

// RuleOrder возвращает порядок правил обеих фаз
func RuleOrder(rules []Rule) []RuleID {
	ids := make([]RuleID, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

// Камни у воды крошатся в почву
func fireRockToSoil(pc *passContext, s *sample) bool {
	t := s.tile
	return t.Type().Rocks && isOceanAround(t) && pc.propose(t, tiletype.SoilHighID)
}

// Трава у воды превращается в пляж
func fireGrassToSand(pc *passContext, s *sample) bool {
	t := s.tile
	tt := t.Type()
	return (tt.CanBeBiome || tt.Grass) && isOceanAround(t) && pc.propose(t, tiletype.SandID)
}

// Песок, окружённый водой, уходит под воду
func fireSandToShallow(pc *passContext, s *sample) bool {
	t := s.tile
	return t.Type().Sand && RespectConditionAround(t, isOcean, 3) && pc.propose(t, tiletype.ShallowWatersID)
}

// Вода, зажатая сушей, намывается песком. Первый подходящий сосед прерывает обход.
func fireCoastToSand(pc *passContext, s *sample) bool {
	for _, n := range s.tile.Neighbours() {
		nt := n.Type()
		if (nt.Ocean || nt.CanBeFilledWithOcean) &&
			!pc.batch.Contains(n) &&
			RespectConditionAround(n, isGround, 3) {
			return pc.propose(n, tiletype.SandID)
		}

		// Мелководье постепенно зарастает песком, если рядом нет глубины
		if nt.Ocean && nt.Is(tiletype.ShallowWatersID) &&
			!pc.batch.Contains(n) &&
			RespectConditionAround(n, isGround, pc.expansionThreshold(n)) &&
			RespectConditionInDistance(n, isNotDeepWater, 1) {
			return pc.propose(n, tiletype.SandID)
		}
	}
	return false
}

// Песок вдали от воды и рядом с зеленью становится почвой
func fireSandToDirt(pc *passContext, s *sample) bool {
	t := s.tile
	if !t.Type().Sand || !RespectConditionAround(t, isGroundLayer, 3) {
		return false
	}
	if !RespectConditionAround(t, isBiomeOrGrass, 1) {
		return false
	}
	noOceanNear := RespectConditionInDistance(t, isNotOcean, 4) ||
		(RespectConditionAround(t, isNotSand, 3) && RespectConditionAround(t, isNotOcean, 4))
	return noOceanNear && pc.propose(t, pc.dirtFor(t))
}

// Пустошь рядом с травой восстанавливается в почву
func fireWastelandToDirt(pc *passContext, s *sample) bool {
	t := s.tile
	return t.Type().Wasteland &&
		RespectConditionAround(t, isGroundLayer, 3) &&
		RespectConditionAround(t, isGrass, 1) &&
		pc.propose(t, pc.dirtFor(t))
}

// Голая почва вдали от океана изредка зарастает случайным биомом.
// Соседние тайлы могут быть чем угодно, кроме воды: проплешина среди травы
// зарастает так же, как большое поле.
func fireDirtToBiome(pc *passContext, s *sample) bool {
	t := s.tile
	if !pc.params.BiomeGrowth || !isBareSoil(t) || len(pc.biomes) == 0 {
		return false
	}
	if pc.rng.Float64() >= pc.params.BiomeGrowthChance {
		return false
	}
	if !RespectConditionInDistance(t, isNotOcean, pc.params.BiomeGrowthDistance) {
		return false
	}
	biome := pc.biomes[pc.rng.Intn(len(pc.biomes))]
	return pc.batch.ProposeGrowth(t, biome)
}

// Океан у берега мелеет
func fireOceanToShallow(pc *passContext, s *sample) bool {
	t := s.tile
	return !t.Type().Is(tiletype.ShallowWatersID) && s.mustBeShallow && pc.propose(t, tiletype.ShallowWatersID)
}

// Океан выравнивается по соседнему прибрежному океану
func fireOceanToClose(pc *passContext, s *sample) bool {
	t := s.tile
	tt := t.Type()
	return tt.Ocean && !s.mustBeShallow && !tt.Is(tiletype.CloseOceanID) &&
		RespectConditionAround(t, isCloseOcean, 3) &&
		pc.propose(t, tiletype.CloseOceanID)
}

// Океан выравнивается по соседнему глубокому океану
func fireOceanToDeep(pc *passContext, s *sample) bool {
	t := s.tile
	tt := t.Type()
	return tt.Ocean && !s.mustBeShallow && !tt.Is(tiletype.DeepOceanID) &&
		RespectConditionAround(t, isDeepOcean, 3) &&
		pc.propose(t, tiletype.DeepOceanID)
}

// Мелководье вдали от берега углубляется
func fireShallowToClose(pc *passContext, s *sample) bool {
	t := s.tile
	return t.Type().Is(tiletype.ShallowWatersID) && !s.mustBeShallow && pc.propose(t, tiletype.CloseOceanID)
}

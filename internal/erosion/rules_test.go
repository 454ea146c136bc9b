package erosion

import (
	"testing"

	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/world/tiletype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleOrder(t *testing.T) {
	assert.Equal(t, []RuleID{
		RuleRockToSoil, RuleGrassToSand, RuleSandToShallow, RuleCoastToSand,
		RuleSandToDirt, RuleWastelandToDirt, RuleDirtToBiome,
	}, RuleOrder(IslandRules))
	assert.Equal(t, []RuleID{
		RuleOceanToShallow, RuleOceanToClose, RuleOceanToDeep, RuleShallowToClose,
	}, RuleOrder(OceanRules))
}

func TestIslandRules_RockNearWaterBecomesSoil(t *testing.T) {
	w := parseWorld(t,
		"...",
		".^.",
		"...",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.evaluateIsland(w.Tile(1, 1)))
	changes := pc.batch.Pending()
	require.Len(t, changes, 1)
	assert.Equal(t, tiletype.SoilHighID, changes[0].To)
	assert.Equal(t, 1, pc.hits[RuleRockToSoil])
	assert.Equal(t, tiletype.HillsID, typeAt(w, 1, 1), "до коммита мир не меняется")
}

func TestIslandRules_GrassNearWaterBecomesSand(t *testing.T) {
	w := parseWorld(t,
		"~gg",
		"ggg",
		"ggg",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.evaluateIsland(w.Tile(1, 1)))
	changes := pc.batch.Pending()
	require.Len(t, changes, 1)
	assert.Equal(t, tiletype.SandID, changes[0].To)
	assert.Equal(t, 1, pc.hits[RuleGrassToSand])
}

func TestIslandRules_SandWithThreeOceanNeighboursSinks(t *testing.T) {
	w := parseWorld(t,
		"~~~",
		"sss",
		"sss",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.evaluateIsland(w.Tile(1, 1)))
	changes := pc.batch.Pending()
	require.Len(t, changes, 1)
	assert.Equal(t, tiletype.ShallowWatersID, changes[0].To)
	assert.Equal(t, 1, pc.hits[RuleSandToShallow])
}

func TestIslandRules_CoastToSandContinuesCascade(t *testing.T) {
	w := parseWorld(t,
		"~~g",
		"sgg",
		"ggg",
	)
	// В центре песок с двумя соседями-океанами
	require.NoError(t, w.SetTileType(w.Tile(1, 1).Pos, tiletype.SandID))
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.evaluateIsland(w.Tile(1, 1)))

	assert.Equal(t, 1, pc.hits[RuleCoastToSand])
	assert.Equal(t, 1, pc.hits[RuleSandToDirt])
	assert.Zero(t, pc.hits[RuleSandToShallow])

	byPos := make(map[[2]int]tiletype.TypeID)
	for _, c := range pc.batch.Pending() {
		byPos[[2]int{c.Pos.X, c.Pos.Y}] = c.To
	}
	assert.Equal(t, map[[2]int]tiletype.TypeID{
		{1, 0}: tiletype.SandID,
		{1, 1}: tiletype.SoilHighID,
	}, byPos)
}

func TestIslandRules_ShallowNeighbourSilts(t *testing.T) {
	cases := []struct {
		name    string
		rows    []string
		noise   float64
		silting bool
	}{
		{
			name: "calm shallows",
			rows: []string{
				"s....",
				"s....",
				".....",
				".....",
			},
			noise:   0.1,
			silting: true,
		},
		{
			name: "close ocean nearby",
			rows: []string{
				"s....",
				"s..-.",
				".....",
				".....",
			},
			noise: 0.1,
		},
		{
			name: "not enough land for noisy tile",
			rows: []string{
				"s....",
				"s....",
				".....",
				".....",
			},
			noise: 0.9,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := parseWorld(t, tc.rows...)
			pc := newTestContext(w, ResilienceParams(), constNoise(tc.noise))

			// Сработало только правило с продолжением каскада
			assert.False(t, pc.evaluateIsland(w.Tile(0, 0)))
			if !tc.silting {
				assert.Zero(t, pc.hits[RuleCoastToSand])
				assert.Empty(t, pc.batch.Pending())
				return
			}
			assert.Equal(t, 1, pc.hits[RuleCoastToSand])
			changes := pc.batch.Pending()
			require.Len(t, changes, 1)
			assert.Equal(t, tiletype.ShallowWatersID, changes[0].From)
			assert.Equal(t, tiletype.SandID, changes[0].To)
			assert.Equal(t, 1, changes[0].Pos.X)
		})
	}
}

func TestIslandRules_SandNearOceanBehindGreeneryBecomesDirt(t *testing.T) {
	w := parseWorld(t,
		"ggggg~~",
		"ggggg~~",
		"ggsgg~~",
		"ggggg~~",
		"ggggg~~",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	require.False(t, RespectConditionInDistance(w.Tile(2, 2), isNotOcean, 4))
	assert.True(t, pc.evaluateIsland(w.Tile(2, 2)))
	assert.Equal(t, 1, pc.hits[RuleSandToDirt])
	assert.Equal(t, tiletype.SoilHighID, pc.batch.Pending()[0].To)

	// Вокруг слишком много песка: вторая ветка условия не выполняется
	w = parseWorld(t,
		"ggggg~~",
		"gsssg~~",
		"gssgg~~",
		"gsssg~~",
		"ggggg~~",
	)
	pc = newTestContext(w, ResilienceParams(), constNoise(0.3))
	assert.False(t, pc.evaluateIsland(w.Tile(2, 2)))
	assert.Zero(t, pc.hits[RuleSandToDirt])
	assert.Empty(t, pc.batch.Pending())
}

func TestIslandRules_DirtSubtypeFollowsNoise(t *testing.T) {
	rows := []string{
		"ggggg",
		"ggggg",
		"ggwgg",
		"ggggg",
		"ggggg",
	}
	w := parseWorld(t, rows...)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.9))
	assert.True(t, pc.evaluateIsland(w.Tile(2, 2)))
	assert.Equal(t, 1, pc.hits[RuleWastelandToDirt])
	assert.Equal(t, tiletype.SoilLowID, pc.batch.Pending()[0].To)

	w = parseWorld(t, rows...)
	pc = newTestContext(w, ResilienceParams(), constNoise(0.3))
	assert.True(t, pc.evaluateIsland(w.Tile(2, 2)))
	assert.Equal(t, tiletype.SoilHighID, pc.batch.Pending()[0].To)
}

func TestIslandRules_BiomeGrowthIsRareAndOutsideCap(t *testing.T) {
	w := parseWorld(t,
		"lllllll",
		"lllllll",
		"lllllll",
		"lllllll",
		"lllllll",
		"lllllll",
		"lllllll",
	)
	params := ResilienceParams()
	params.BiomeGrowthChance = 1
	params.MaxTilesInList = 1
	pc := newTestContext(w, params, constNoise(0.3))

	// Занимаем весь лимит пакета
	require.True(t, pc.propose(w.Tile(0, 0), tiletype.SandID))
	require.True(t, pc.batch.Full())

	assert.True(t, pc.evaluateIsland(w.Tile(3, 3)))
	assert.Equal(t, 1, pc.hits[RuleDirtToBiome])
	assert.Equal(t, 1, pc.batch.GrowthLen())

	params.BiomeGrowth = false
	pc = newTestContext(w, params, constNoise(0.3))
	assert.False(t, pc.evaluateIsland(w.Tile(3, 3)))
}

func TestIslandRules_BiomeGrowthReachableOnGeneratedWorld(t *testing.T) {
	w, err := world.NewWorldGenerator(11).Generate(200, 200)
	require.NoError(t, err)

	params := ResilienceParams()
	params.BiomeGrowthChance = 1
	pc := newTestContext(w, params, constNoise(0.3))

	bare := 0
	for _, tile := range w.Tiles() {
		if !isBareSoil(tile) {
			continue
		}
		bare++
		pc.evaluateIsland(tile)
	}
	require.NotZero(t, bare)
	assert.NotZero(t, pc.hits[RuleDirtToBiome], "голая почва вдали от воды должна зарастать")
	assert.Equal(t, pc.hits[RuleDirtToBiome], pc.batch.GrowthLen())
}

func TestIslandRules_BiomeGrowthAvoidsCoast(t *testing.T) {
	w := parseWorld(t,
		"ggggg",
		"ggggg",
		"gglgg",
		"ggggg",
		"gggg~",
	)
	params := ResilienceParams()
	params.BiomeGrowthChance = 1
	pc := newTestContext(w, params, constNoise(0.3))
	assert.False(t, pc.evaluateIsland(w.Tile(2, 2)))
	assert.Zero(t, pc.hits[RuleDirtToBiome])

	params.BiomeGrowthDistance = 0
	pc = newTestContext(w, params, constNoise(0.3))
	assert.True(t, pc.evaluateIsland(w.Tile(2, 2)), "соседи-трава не мешают росту")
	assert.Equal(t, 1, pc.hits[RuleDirtToBiome])
}

func TestOceanRules_AlignsToCloseOcean(t *testing.T) {
	w := parseWorld(t,
		"~~~~~",
		"~---~",
		"~~~~~",
		"~~~~~",
		"~~~~~",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.evaluateOcean(w.Tile(2, 2)))
	assert.Equal(t, 1, pc.hits[RuleOceanToClose])
	assert.Equal(t, tiletype.CloseOceanID, pc.batch.Pending()[0].To)
}

func TestOceanRules_OceanNearLandBecomesShallow(t *testing.T) {
	w := parseWorld(t,
		"~~~",
		"~~~",
		"sss",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.True(t, pc.mustBeShallowWater(w.Tile(1, 1)))
	assert.True(t, pc.evaluateOcean(w.Tile(1, 1)))
	assert.Equal(t, 1, pc.hits[RuleOceanToShallow])
	assert.Equal(t, tiletype.ShallowWatersID, pc.batch.Pending()[0].To)
}

func TestOceanRules_IsolatedShallowJoinsDeepOcean(t *testing.T) {
	w := parseWorld(t,
		"~~~~~",
		"~~~~~",
		"~~.~~",
		"~~~~~",
		"~~~~~",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	assert.False(t, pc.mustBeShallowWater(w.Tile(2, 2)))
	assert.True(t, pc.evaluateOcean(w.Tile(2, 2)))
	assert.Equal(t, 1, pc.hits[RuleOceanToDeep])
}

func TestOceanRules_ShallowAwayFromShoreDeepens(t *testing.T) {
	w := parseWorld(t,
		"~~o",
		"-.o",
		"-oo",
	)
	pc := newTestContext(w, ResilienceParams(), constNoise(0.3))

	require.False(t, pc.mustBeShallowWater(w.Tile(1, 1)))
	assert.True(t, pc.evaluateOcean(w.Tile(1, 1)))
	assert.Equal(t, 1, pc.hits[RuleShallowToClose])
	assert.Zero(t, pc.hits[RuleOceanToClose])
	assert.Zero(t, pc.hits[RuleOceanToDeep])
	assert.Equal(t, tiletype.CloseOceanID, pc.batch.Pending()[0].To)
}

func TestExpansionThreshold(t *testing.T) {
	w := parseWorld(t, "...")
	params := ResilienceParams()

	cases := []struct {
		noise float64
		want  int
	}{
		{0.1, 1},
		{0.5, 2},
		{0.9, 3},
	}
	for _, tc := range cases {
		pc := newTestContext(w, params, constNoise(tc.noise))
		assert.Equal(t, tc.want, pc.expansionThreshold(w.Tile(1, 0)), "noise %.2f", tc.noise)
	}
}

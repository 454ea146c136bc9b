package erosion

import (
	"testing"

	"github.com/annel0/world-resilience/internal/vec"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/stretchr/testify/assert"
)

func TestRespectConditionAround(t *testing.T) {
	w := parseWorld(t,
		"~~~",
		"~ss",
		"sss",
	)
	center := w.Tile(1, 1)

	assert.True(t, RespectConditionAround(center, isOcean, 1))
	assert.True(t, RespectConditionAround(center, isOcean, 4))
	assert.False(t, RespectConditionAround(center, isOcean, 5))
	assert.True(t, RespectConditionAround(center, isGround, 4))
	assert.False(t, RespectConditionAround(center, isGround, 5))

	// У углового тайла всего 3 соседа
	corner := w.Tile(2, 2)
	assert.True(t, RespectConditionAround(corner, isGround, 3))
	assert.False(t, RespectConditionAround(corner, isGround, 4))
}

func TestRespectConditionInDistance_ZeroChecksNeighboursOnly(t *testing.T) {
	w := parseWorld(t,
		"~~~~~",
		"~sss~",
		"~sss~",
		"~sss~",
		"~~~~~",
	)
	center := w.Tile(2, 2)

	assert.True(t, RespectConditionInDistance(center, isGround, 0))
	assert.False(t, RespectConditionInDistance(center, isGround, 1), "соседи соседей включают океан")
	assert.False(t, RespectConditionInDistance(center, isOcean, 0))
}

// ringDistance: номер кольца 8-связной сетки (расстояние Чебышёва)
func ringDistance(a, b vec.Vec2) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// bruteForceInDistance: все тайлы на расстоянии Чебышёва 1..distance+1 (без самого тайла)
func bruteForceInDistance(w *world.World, t *world.Tile, pred Predicate, distance int) bool {
	for _, other := range w.Tiles() {
		d := ringDistance(other.Pos, t.Pos)
		if d >= 1 && d <= distance+1 && !pred(other) {
			return false
		}
	}
	// Рекурсия проверяет и сам тайл, если он сосед своего соседа
	if distance > 0 && !pred(t) {
		return false
	}
	return true
}

func TestRespectConditionInDistance_MatchesBruteForce(t *testing.T) {
	w := parseWorld(t,
		"~~~~~~~",
		"~sssss~",
		"~sgggs~",
		"~sgggs~",
		"~sgggs~",
		"~sssss~",
		"~~~~~~~",
	)

	for _, tile := range w.Tiles() {
		for d := 0; d <= 2; d++ {
			assert.Equal(t,
				bruteForceInDistance(w, tile, isNotOcean, d),
				RespectConditionInDistance(tile, isNotOcean, d),
				"tile %v distance %d", tile.Pos, d)
		}
	}
}

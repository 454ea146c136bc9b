package vec

// Vec2 представляет целочисленные координаты тайла на карте
type Vec2 struct {
	X, Y int
}

// Neighbour8 перечисляет смещения восьми соседей тайла (по часовой стрелке, начиная сверху)
var Neighbour8 = [8]Vec2{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// Add складывает координаты
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// InBounds проверяет, лежит ли точка внутри прямоугольника [0,w)x[0,h)
func (v Vec2) InBounds(w, h int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < w && v.Y < h
}

package tiletype

import "sort"

var registry = make(map[TypeID]*TileType)

// Register добавляет тип тайла в каталог. Вызывается только при
// инициализации пакета; после старта мира каталог только читается.
func Register(t *TileType) {
	registry[t.ID] = t
}

// Get возвращает тип тайла по ID
func Get(id TypeID) (*TileType, bool) {
	t, exists := registry[id]
	return t, exists
}

// MustGet возвращает тип тайла или паникует, если ID не зарегистрирован
func MustGet(id TypeID) *TileType {
	t, exists := registry[id]
	if !exists {
		panic("tiletype: неизвестный ID " + id.String())
	}
	return t
}

// IsValidTypeID проверяет, зарегистрирован ли ID
func IsValidTypeID(id TypeID) bool {
	_, exists := registry[id]
	return exists
}

// All возвращает все зарегистрированные типы, отсортированные по ID
func All() []*TileType {
	out := make([]*TileType, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BiomePool возвращает типы-биомы, которые может вырастить эрозия
func BiomePool() []*TileType {
	pool := make([]*TileType, 0, 4)
	for _, t := range All() {
		if t.IsBiome {
			pool = append(pool, t)
		}
	}
	return pool
}

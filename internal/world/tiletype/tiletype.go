package tiletype

import "strconv"

// TypeID задаёт стабильный числовой идентификатор типа тайла
type TypeID uint16

// LayerType задаёт грубую классификацию слоя, по которой считаются острова
type LayerType uint8

const (
	LayerGround LayerType = iota // суша
	LayerOcean                   // вода
	LayerBlock                   // непроходимые горы
)

// String возвращает имя слоя
func (l LayerType) String() string {
	switch l {
	case LayerGround:
		return "ground"
	case LayerOcean:
		return "ocean"
	case LayerBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Константы ID типов
const (
	// Вода (по глубине)
	DeepOceanID     TypeID = iota + 1 // 1
	CloseOceanID                      // 2
	ShallowWatersID                   // 3
	PitID                             // 4 - яма, может быть залита океаном

	// Суша
	SandID      TypeID = 10
	SoilLowID   TypeID = 11
	SoilHighID  TypeID = 12
	HillsID     TypeID = 13
	MountainsID TypeID = 14
	WastelandID TypeID = 15

	// Биомы (верхние тайлы поверх почвы, начиная с 100)
	GrassID   TypeID = 100
	SavannaID TypeID = 101
	JungleID  TypeID = 102
	SwampID   TypeID = 103
)

// String возвращает имя типа или его числовой ID
func (id TypeID) String() string {
	if t, ok := registry[id]; ok {
		return t.Name
	}
	return strconv.Itoa(int(id))
}

// TileType описывает неизменяемую категорию местности
type TileType struct {
	ID    TypeID
	Name  string
	Layer LayerType

	Ground               bool
	Ocean                bool
	Sand                 bool
	Rocks                bool
	Grass                bool
	Wasteland            bool
	CanBeBiome           bool
	IsBiome              bool
	CanBeFilledWithOcean bool
}

// Is сравнивает тип по идентификатору
func (t *TileType) Is(id TypeID) bool {
	return t != nil && t.ID == id
}

func (t *TileType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

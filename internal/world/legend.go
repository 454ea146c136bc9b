package world

import "github.com/annel0/world-resilience/internal/world/tiletype"

// DefaultLegend задаёт символы ASCII-схем для ParseTypeGrid
var DefaultLegend = map[rune]tiletype.TypeID{
	'~': tiletype.DeepOceanID,
	'-': tiletype.CloseOceanID,
	'.': tiletype.ShallowWatersID,
	'o': tiletype.PitID,
	's': tiletype.SandID,
	'l': tiletype.SoilLowID,
	'h': tiletype.SoilHighID,
	'^': tiletype.HillsID,
	'M': tiletype.MountainsID,
	'w': tiletype.WastelandID,
	'g': tiletype.GrassID,
	'v': tiletype.SavannaID,
	'j': tiletype.JungleID,
	'x': tiletype.SwampID,
}

// RenderTypeGrid рисует мир ASCII-схемой; обратная операция к ParseTypeGrid.
// Типы без символа в легенде рисуются как '?'.
func RenderTypeGrid(w *World, legend map[rune]tiletype.TypeID) []string {
	glyphs := make(map[tiletype.TypeID]rune, len(legend))
	for ch, id := range legend {
		glyphs[id] = ch
	}
	rows := make([]string, w.height)
	line := make([]rune, w.width)
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			ch, ok := glyphs[w.Tile(x, y).typ.ID]
			if !ok {
				ch = '?'
			}
			line[x] = ch
		}
		rows[y] = string(line)
	}
	return rows
}

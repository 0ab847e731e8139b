package engine

import (
	"fmt"

	"gridgym/internal/domain/object"
)

// WallSymbol marks a wall cell in a symbol map.
const WallSymbol = '#'

// WallLayout is either a coordinate list or a rectangular symbol map. Coords
// wins when both are set.
type WallLayout struct {
	Coords []object.Point
	Map    []string
}

// LoadWalls builds wall objects from a layout. Map rows are read top to bottom
// and must all have the same length.
func LoadWalls(layout WallLayout) ([]object.Object, error) {
	if layout.Coords != nil {
		walls := make([]object.Object, 0, len(layout.Coords))
		for _, p := range layout.Coords {
			walls = append(walls, object.NewWall(p))
		}
		return walls, nil
	}
	if err := checkRect(layout.Map); err != nil {
		return nil, err
	}
	var walls []object.Object
	for y, row := range layout.Map {
		for x, r := range []rune(row) {
			if r == WallSymbol {
				walls = append(walls, object.NewWall(object.Point{X: x, Y: y}))
			}
		}
	}
	return walls, nil
}

// ParsedMap is the content of a symbol map: walls plus every other glyph
// position keyed by glyph.
type ParsedMap struct {
	Width  int
	Height int
	Walls  []object.Object
	Glyphs map[rune][]object.Point
}

// ParseMap reads a symbol map. Spaces and dots are empty cells.
func ParseMap(rows []string) (ParsedMap, error) {
	if err := checkRect(rows); err != nil {
		return ParsedMap{}, err
	}
	out := ParsedMap{Height: len(rows), Glyphs: map[rune][]object.Point{}}
	for y, row := range rows {
		runes := []rune(row)
		out.Width = len(runes)
		for x, r := range runes {
			p := object.Point{X: x, Y: y}
			switch r {
			case WallSymbol:
				out.Walls = append(out.Walls, object.NewWall(p))
			case ' ', '.':
			default:
				out.Glyphs[r] = append(out.Glyphs[r], p)
			}
		}
	}
	return out, nil
}

// One returns the single position of glyph r.
func (m ParsedMap) One(r rune) (object.Point, error) {
	ps := m.Glyphs[r]
	if len(ps) != 1 {
		return object.Point{}, configErr("map", "expected one %q, found %d", r, len(ps))
	}
	return ps[0], nil
}

func checkRect(rows []string) error {
	if len(rows) == 0 {
		return configErr("map", "empty map")
	}
	width := len([]rune(rows[0]))
	for i, row := range rows {
		if n := len([]rune(row)); n != width {
			return configErr(fmt.Sprintf("map[%d]", i), "row has %d cells, want %d", n, width)
		}
	}
	return nil
}

// Package terminal draws grid states as text, optionally colored with ANSI
// escapes.
package terminal

import (
	"strings"

	"github.com/logrusorgru/aurora"

	"gridgym/internal/domain/object"
)

const emptyGlyph = '.'

type cell struct {
	glyph rune
	color object.Color
	set   bool
}

// Canvas is a character grid. One character is one unit of canvas size.
type Canvas struct {
	width  int
	height int
	cells  []cell
	au     aurora.Aurora
}

// NewCanvas returns a width x height character canvas. colors turns ANSI
// escapes on.
func NewCanvas(width, height int, colors bool) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		au:     aurora.NewAurora(colors),
	}
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Set paints one character; later calls win. Out of range is ignored.
func (c *Canvas) Set(x, y int, glyph rune, color object.Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{glyph: glyph, color: color, set: true}
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if !cl.set {
				b.WriteRune(emptyGlyph)
				continue
			}
			b.WriteString(c.paint(cl).String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) paint(cl cell) aurora.Value {
	g := string(cl.glyph)
	switch cl.color {
	case object.ColorOrange:
		return c.au.Index(208, g)
	case object.ColorGreen:
		return c.au.Green(g)
	case object.ColorRed:
		return c.au.Red(g)
	case object.ColorBlue:
		return c.au.Blue(g)
	case object.ColorYellow:
		return c.au.Yellow(g)
	case object.ColorCyan:
		return c.au.Cyan(g)
	case object.ColorPurple:
		return c.au.Magenta(g)
	case object.ColorGrey:
		return c.au.Gray(12, g)
	case object.ColorWhite:
		return c.au.White(g)
	default:
		return c.au.BrightBlack(g)
	}
}

// Package heatmap plots agent visit counts as a PNG heat map.
package heatmap

import (
	"errors"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrEmptyGrid = errors.New("empty visit grid")

// Grid adapts a [y][x] visit table, y growing downwards, to plotter.GridXYZ.
type Grid struct {
	Visits [][]int
}

var _ plotter.GridXYZ = Grid{}

func (g Grid) Dims() (int, int) {
	if len(g.Visits) == 0 {
		return 0, 0
	}
	return len(g.Visits[0]), len(g.Visits)
}

// Z flips rows so the top grid row is drawn on top.
func (g Grid) Z(c, r int) float64 {
	row := g.Visits[len(g.Visits)-1-r]
	if c >= len(row) {
		return 0
	}
	return float64(row[c])
}

func (g Grid) X(c int) float64 { return float64(c) }

func (g Grid) Y(r int) float64 { return float64(r) }

func (g Grid) Max() float64 {
	m := 0
	for _, row := range g.Visits {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return float64(m)
}

// Write encodes the heat map as PNG.
func Write(w io.Writer, title string, visits [][]int) error {
	g := Grid{Visits: visits}
	if c, r := g.Dims(); c == 0 || r == 0 {
		return ErrEmptyGrid
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y (top row last)"
	p.Add(plotter.NewHeatMap(g, palette.Heat(20, 1)))

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

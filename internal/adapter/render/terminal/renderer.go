package terminal

import (
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/object"
)

var _ engine.Renderer = Renderer{}

// Renderer draws each object as its kind glyph into a *Canvas. Other canvas
// types are ignored.
type Renderer struct{}

func (Renderer) Draw(obj object.Object, canvas engine.Canvas, cellSize float64) {
	c, ok := canvas.(*Canvas)
	if !ok {
		return
	}
	x := int(float64(obj.Position.X) * cellSize)
	y := int(float64(obj.Position.Y) * cellSize)
	c.Set(x, y, Glyph(obj), obj.Color)
}

// Glyph is the character for an object in its current state.
func Glyph(obj object.Object) rune {
	switch obj.Kind {
	case object.KindAgent:
		switch obj.Facing() {
		case object.DirUp:
			return '^'
		case object.DirLeft:
			return '<'
		case object.DirDown:
			return 'v'
		default:
			return '>'
		}
	case object.KindDoor:
		switch obj.State {
		case object.DoorOpen:
			return '/'
		case object.DoorClosed:
			return 'd'
		}
	}
	return obj.Meta().Glyph
}

// Frame renders the engine state at one character per cell.
func Frame(e *engine.Engine, colors bool) string {
	s := e.Settings()
	c := NewCanvas(s.Width, s.Height, colors)
	e.Render(c, Renderer{})
	return c.String()
}

package engine

import "gridgym/internal/domain/object"

// Canvas is the drawing surface owned by a Renderer backend.
type Canvas interface {
	Size() (width, height int)
}

// Renderer draws one object at a time. The engine calls Draw once per
// non-removed object in paint order: target, other, walls, agent.
type Renderer interface {
	Draw(obj object.Object, canvas Canvas, cellSize float64)
}

// Render draws the current state. It is a no-op in render mode none.
func (e *Engine) Render(canvas Canvas, r Renderer) {
	if e.render.RenderMode == RenderNone || canvas == nil || r == nil {
		return
	}
	cw, ch := canvas.Size()
	cell := float64(cw) / float64(e.settings.Width)
	if alt := float64(ch) / float64(e.settings.Height); alt < cell {
		cell = alt
	}
	e.st.objects.each(func(o *object.Object) {
		if !o.IsRemoved() {
			r.Draw(*o, canvas, cell)
		}
	})
}

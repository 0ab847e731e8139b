package pov

import "gridgym/internal/domain/object"

// visible walks from the agent towards cell, diagonally until one axis lines
// up and then straight, and fails on the first opaque cell in between. The
// cell itself is always visible when nothing blocks the way to it.
func visible(s Snapshot, from, cell object.Point) bool {
	dx, dy := sign(cell.X-from.X), sign(cell.Y-from.Y)
	p := object.Point{X: from.X + dx, Y: from.Y + dy}
	for p != cell {
		if object.OpaqueIdentity(s.At(p)) {
			return false
		}
		if p.X != cell.X {
			p.X += dx
		}
		if p.Y != cell.Y {
			p.Y += dy
		}
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// look returns the cell identity as seen from the agent.
func look(s Snapshot, cell object.Point, xray bool) [3]int {
	if !cell.In(s.Width, s.Height) {
		return [3]int{}
	}
	if cell != s.Agent && !xray && !visible(s, s.Agent, cell) {
		return [3]int{}
	}
	return s.At(cell)
}

package object

import "fmt"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Removed is the position of an object taken off the grid. It stays removed
// until the next reset.
var Removed = Point{X: -1, Y: -1}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(n int) Point {
	return Point{X: p.X * n, Y: p.Y * n}
}

func (p Point) IsRemoved() bool {
	return p == Removed
}

func (p Point) In(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

type Direction int

const (
	DirRight Direction = iota
	DirUp
	DirLeft
	DirDown
)

const directionCount = 4

// Vector is the unit step for the direction in screen coordinates, where up
// decreases Y.
func (d Direction) Vector() Point {
	switch d.Normalize() {
	case DirUp:
		return Point{X: 0, Y: -1}
	case DirLeft:
		return Point{X: -1, Y: 0}
	case DirDown:
		return Point{X: 0, Y: 1}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Right is the unit step to the right of someone facing d.
func (d Direction) Right() Point {
	v := d.Vector()
	return Point{X: -v.Y, Y: v.X}
}

func (d Direction) Left() Direction {
	return (d + 1).Normalize()
}

func (d Direction) TurnRight() Direction {
	return (d - 1).Normalize()
}

func (d Direction) Opposite() Direction {
	return (d + 2).Normalize()
}

func (d Direction) Normalize() Direction {
	return ((d % directionCount) + directionCount) % directionCount
}

func (d Direction) String() string {
	switch d.Normalize() {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	default:
		return "right"
	}
}

// Zone is an inclusive rectangle. The zero Zone is unbounded.
type Zone struct {
	Low  Point `json:"low"`
	High Point `json:"high"`
}

func (z Zone) IsZero() bool {
	return z == Zone{}
}

func (z Zone) Contains(p Point) bool {
	if z.IsZero() {
		return true
	}
	return p.X >= z.Low.X && p.X <= z.High.X && p.Y >= z.Low.Y && p.Y <= z.High.Y
}

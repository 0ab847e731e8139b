package object

import "errors"

// Door states.
const (
	DoorOpen = iota
	DoorClosed
	DoorLocked
)

var ErrInvalidObject = errors.New("invalid grid object")

type Object struct {
	Kind     Kind    `json:"kind"`
	Position Point   `json:"position"`
	Color    Color   `json:"color"`
	State    int     `json:"state"`
	Reach    int     `json:"reach,omitempty"`
	Reward   float64 `json:"reward,omitempty"`
	Zone     Zone    `json:"zone,omitempty"`

	start origin
}

type origin struct {
	position Point
	color    Color
	state    int
}

func newObject(kind Kind, pos Point, color Color, state int) Object {
	o := Object{Kind: kind, Position: pos, Color: color, State: state}
	o.normalize()
	o.start = origin{position: o.Position, color: o.Color, state: o.State}
	return o
}

func NewAgent(pos Point, facing Direction) Object {
	return newObject(KindAgent, pos, ColorOrange, int(facing))
}

func NewWall(pos Point) Object {
	return newObject(KindWall, pos, ColorGrey, 0)
}

func NewTarget(pos Point, color Color) Object {
	return newObject(KindTarget, pos, color, 0)
}

func NewDoor(pos Point, color Color, state int) Object {
	return newObject(KindDoor, pos, color, state)
}

func NewKey(pos Point, color Color) Object {
	return newObject(KindKey, pos, color, 0)
}

func NewRandomBlock(pos Point) Object {
	return newObject(KindRandomBlock, pos, ColorBlack, 0)
}

// NewEnemy patrols reach cells from pos in the facing direction and back.
func NewEnemy(pos Point, facing Direction, reach int) Object {
	o := newObject(KindEnemy, pos, ColorWhite, int(facing))
	if reach > 0 {
		o.Reach = reach
	}
	return o
}

func NewSmallReward(pos Point, reward float64) Object {
	o := newObject(KindSmallReward, pos, ColorWhite, 0)
	o.Reward = reward
	return o
}

// NewBall can only be pushed inside zone. A zero zone only limits the ball to
// the grid.
func NewBall(pos Point, zone Zone, color Color) Object {
	o := newObject(KindBall, pos, color, 0)
	o.Zone = zone
	return o
}

func (o Object) Validate() error {
	if _, ok := Lookup(o.Kind); !ok {
		return ErrInvalidObject
	}
	if o.Reach < 0 {
		return ErrInvalidObject
	}
	return nil
}

func (o Object) Meta() Meta {
	m, _ := Lookup(o.Kind)
	return m
}

func (o Object) IsRemoved() bool {
	return o.Position.IsRemoved()
}

// Identity is the (identifier, color, state) triple used in observations.
func (o Object) Identity() [3]int {
	return [3]int{o.Kind.Identifier(), int(o.Color), o.State}
}

func (o Object) StartPosition() Point {
	return o.start.position
}

func (o Object) StartColor() Color {
	return o.start.color
}

// Reset restores the position, color and state captured at construction.
func (o *Object) Reset() {
	o.Position = o.start.position
	o.Color = o.start.color
	o.State = o.start.state
	o.normalize()
}

func (o *Object) Remove() {
	o.Position = Removed
}

func (o *Object) normalize() {
	o.Color = o.Color.Normalize()
	switch o.Kind {
	case KindAgent, KindEnemy:
		o.State = int(Direction(o.State).Normalize())
	case KindDoor:
		if o.State < DoorOpen {
			o.State = DoorOpen
		}
		if o.State > DoorLocked {
			o.State = DoorLocked
		}
	default:
		o.State = 0
	}
}

func (o Object) Facing() Direction {
	return Direction(o.State).Normalize()
}

// Front is the cell the object faces.
func (o Object) Front() Point {
	return o.Position.Add(o.Facing().Vector())
}

func (o *Object) Face(d Direction) {
	o.State = int(d.Normalize())
}

// HoldsKey reports whether an agent carries a key of the given color.
func (o Object) HoldsKey(c Color) bool {
	return o.Kind == KindAgent && o.Color != o.start.color && o.Color == c
}

// HeldKey returns the color of the carried key, if any.
func (o Object) HeldKey() (Color, bool) {
	if o.Kind != KindAgent || o.Color == o.start.color {
		return 0, false
	}
	return o.Color, true
}

// OpaqueIdentity reports whether a cell with the given identity blocks the line
// of sight of local and forward views. Closed and locked doors both block.
func OpaqueIdentity(id [3]int) bool {
	switch Kind(id[0]) {
	case KindWall:
		return true
	case KindDoor:
		return id[2] != DoorOpen
	default:
		return false
	}
}

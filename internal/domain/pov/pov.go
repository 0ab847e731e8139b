// Package pov turns a full grid snapshot into what the agent perceives and
// defines which raw actions the agent may send.
package pov

import (
	"errors"
	"fmt"

	"gridgym/internal/domain/object"
)

var (
	ErrUnknownAction = errors.New("action outside the action space")
	ErrIncompatible  = errors.New("pov incompatible with grid")
)

// Channels per observed cell: identifier, color, state.
const Channels = 3

// ObservationHigh is the exclusive upper bound of every channel value.
const ObservationHigh = 10

// Snapshot is the read-only engine state a POV observes.
type Snapshot struct {
	Width  int
	Height int
	// Grid holds one identity triple per cell, row-major.
	Grid   [][3]int
	Agent  object.Point
	Facing object.Direction
}

func (s Snapshot) At(p object.Point) [3]int {
	if !p.In(s.Width, s.Height) {
		return [3]int{}
	}
	return s.Grid[p.Y*s.Width+p.X]
}

// Observation is a flat list of cells, each encoded as Channels ints.
type Observation [][3]int

type ActionSpace struct {
	N     int      `json:"n"`
	Names []string `json:"names"`
}

func (s ActionSpace) Contains(a int) bool {
	return a >= 0 && a < s.N
}

type ObservationSpace struct {
	Cells    int `json:"cells"`
	Channels int `json:"channels"`
	Low      int `json:"low"`
	High     int `json:"high"`
}

func newObservationSpace(cells int) ObservationSpace {
	return ObservationSpace{Cells: cells, Channels: Channels, Low: 0, High: ObservationHigh}
}

// Command is a raw action translated into engine terms.
type Command struct {
	Action object.Action
	// Face is applied before Action when SetFacing is true.
	Face      object.Direction
	SetFacing bool
}

type POV interface {
	Name() string
	ActionSpace() ActionSpace
	ObservationSpace() ObservationSpace
	// Check reports whether the POV can observe a width x height grid.
	Check(width, height int) error
	Resolve(action int) (Command, error)
	Observe(s Snapshot) Observation
}

var relativeActions = ActionSpace{
	N:     4,
	Names: []string{"forward", "turn_right", "turn_left", "interact"},
}

var absoluteActions = ActionSpace{
	N:     5,
	Names: []string{"up", "down", "left", "right", "interact"},
}

func resolveRelative(action int) (Command, error) {
	if !relativeActions.Contains(action) {
		return Command{}, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
	return Command{Action: object.Action(action)}, nil
}

func resolveAbsolute(action int) (Command, error) {
	switch action {
	case 0:
		return Command{Action: object.ActionForward, Face: object.DirUp, SetFacing: true}, nil
	case 1:
		return Command{Action: object.ActionForward, Face: object.DirDown, SetFacing: true}, nil
	case 2:
		return Command{Action: object.ActionForward, Face: object.DirLeft, SetFacing: true}, nil
	case 3:
		return Command{Action: object.ActionForward, Face: object.DirRight, SetFacing: true}, nil
	case 4:
		return Command{Action: object.ActionInteract}, nil
	default:
		return Command{}, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
}

func copyNames(s ActionSpace) ActionSpace {
	return ActionSpace{N: s.N, Names: append([]string(nil), s.Names...)}
}

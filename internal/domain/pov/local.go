package pov

import "fmt"

// LocalView observes a square window around the agent, rotated so the agent
// faces up. Row 0 is the row furthest ahead.
type LocalView struct {
	radius int
	xray   bool
}

func NewLocal(radius int, xray bool) LocalView {
	return LocalView{radius: radius, xray: xray}
}

func (v LocalView) Radius() int { return v.radius }

func (v LocalView) Name() string {
	if v.xray {
		return fmt.Sprintf("local_xray_%d", v.radius)
	}
	return fmt.Sprintf("local_%d", v.radius)
}

func (v LocalView) side() int { return 2*v.radius + 1 }

func (v LocalView) ActionSpace() ActionSpace { return copyNames(relativeActions) }

func (v LocalView) ObservationSpace() ObservationSpace {
	return newObservationSpace(v.side() * v.side())
}

func (v LocalView) Check(width, height int) error {
	if v.radius < 0 {
		return fmt.Errorf("%w: negative radius %d", ErrIncompatible, v.radius)
	}
	return nil
}

func (v LocalView) Resolve(action int) (Command, error) { return resolveRelative(action) }

func (v LocalView) Observe(s Snapshot) Observation {
	side := v.side()
	out := make(Observation, 0, side*side)
	ahead, right := s.Facing.Vector(), s.Facing.Right()
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			cell := s.Agent.Add(ahead.Scale(v.radius - row)).Add(right.Scale(col - v.radius))
			out = append(out, look(s, cell, v.xray))
		}
	}
	return out
}

// ForwardView observes length rows ahead of the agent, width cells wide and
// centred on the agent's line of travel. Row 0 is the front cell.
type ForwardView struct {
	length int
	width  int
	xray   bool
}

func NewForward(length, width int, xray bool) ForwardView {
	return ForwardView{length: length, width: width, xray: xray}
}

func (v ForwardView) Name() string {
	if v.xray {
		return fmt.Sprintf("forward_xray_%d_%d", v.length, v.width)
	}
	return fmt.Sprintf("forward_%d_%d", v.length, v.width)
}

func (v ForwardView) ActionSpace() ActionSpace { return copyNames(relativeActions) }

func (v ForwardView) ObservationSpace() ObservationSpace {
	return newObservationSpace(v.length * v.width)
}

func (v ForwardView) Check(width, height int) error {
	if v.length <= 0 {
		return fmt.Errorf("%w: forward length must be positive, got %d", ErrIncompatible, v.length)
	}
	if v.width <= 0 || v.width%2 == 0 {
		return fmt.Errorf("%w: forward width must be odd and positive, got %d", ErrIncompatible, v.width)
	}
	return nil
}

func (v ForwardView) Resolve(action int) (Command, error) { return resolveRelative(action) }

func (v ForwardView) Observe(s Snapshot) Observation {
	out := make(Observation, 0, v.length*v.width)
	ahead, right := s.Facing.Vector(), s.Facing.Right()
	half := v.width / 2
	for row := 0; row < v.length; row++ {
		for col := 0; col < v.width; col++ {
			cell := s.Agent.Add(ahead.Scale(row + 1)).Add(right.Scale(col - half))
			out = append(out, look(s, cell, v.xray))
		}
	}
	return out
}

var (
	_ POV = GlobalView{}
	_ POV = LocalView{}
	_ POV = ForwardView{}
)

package pov

import "fmt"

// GlobalView observes the whole grid.
type GlobalView struct {
	width    int
	height   int
	absolute bool
}

func NewGlobal(width, height int) GlobalView {
	return GlobalView{width: width, height: height}
}

// NewGlobalAbsolute moves the agent with up/down/left/right instead of turning.
func NewGlobalAbsolute(width, height int) GlobalView {
	return GlobalView{width: width, height: height, absolute: true}
}

func (v GlobalView) Name() string {
	if v.absolute {
		return "global_absolute"
	}
	return "global"
}

func (v GlobalView) ActionSpace() ActionSpace {
	if v.absolute {
		return copyNames(absoluteActions)
	}
	return copyNames(relativeActions)
}

func (v GlobalView) ObservationSpace() ObservationSpace {
	return newObservationSpace(v.width * v.height)
}

func (v GlobalView) Check(width, height int) error {
	if width != v.width || height != v.height {
		return fmt.Errorf("%w: global view is %dx%d, grid is %dx%d", ErrIncompatible, v.width, v.height, width, height)
	}
	return nil
}

func (v GlobalView) Resolve(action int) (Command, error) {
	if v.absolute {
		return resolveAbsolute(action)
	}
	return resolveRelative(action)
}

func (v GlobalView) Observe(s Snapshot) Observation {
	out := make(Observation, len(s.Grid))
	copy(out, s.Grid)
	return out
}

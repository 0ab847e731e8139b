package engine

import (
	"fmt"

	"gridgym/internal/domain/object"
)

// Objects is the full object collection of one environment. Target is the
// primary goal cell; extra marker targets may sit in Other.
type Objects struct {
	Agent  object.Object
	Target *object.Object
	Walls  []object.Object
	Other  []object.Object
}

func (o Objects) clone() Objects {
	out := Objects{
		Agent: o.Agent,
		Walls: append([]object.Object(nil), o.Walls...),
		Other: append([]object.Object(nil), o.Other...),
	}
	if o.Target != nil {
		t := *o.Target
		out.Target = &t
	}
	return out
}

// each visits every object in paint order: target, other, walls, agent.
func (o *Objects) each(fn func(*object.Object)) {
	if o.Target != nil {
		fn(o.Target)
	}
	for i := range o.Other {
		fn(&o.Other[i])
	}
	for i := range o.Walls {
		fn(&o.Walls[i])
	}
	fn(&o.Agent)
}

// nonWall visits the target, the other objects and the agent.
func (o *Objects) nonWall(fn func(*object.Object)) {
	if o.Target != nil {
		fn(o.Target)
	}
	for i := range o.Other {
		fn(&o.Other[i])
	}
	fn(&o.Agent)
}

func (o *Objects) reset() {
	o.each(func(ob *object.Object) { ob.Reset() })
}

func (o Objects) validate(width, height int) error {
	if o.Agent.Kind != object.KindAgent {
		return configErr("objects.agent", "missing agent")
	}
	if o.Target != nil && o.Target.Kind != object.KindTarget {
		return configErr("objects.target", "expected target, got %s", o.Target.Kind)
	}
	for i, w := range o.Walls {
		if w.Kind != object.KindWall {
			return configErr(fmt.Sprintf("objects.walls[%d]", i), "expected wall, got %s", w.Kind)
		}
	}
	for i, ob := range o.Other {
		switch ob.Kind {
		case object.KindAgent:
			return configErr(fmt.Sprintf("objects.other[%d]", i), "duplicate agent")
		case object.KindWall:
			return configErr(fmt.Sprintf("objects.other[%d]", i), "walls belong in the walls slot")
		}
	}

	var err error
	blocking := map[object.Point]object.Kind{}
	o.each(func(ob *object.Object) {
		if err != nil {
			return
		}
		if vErr := ob.Validate(); vErr != nil {
			err = &ConfigError{Field: "objects", Reason: ob.Kind.String(), Err: vErr}
			return
		}
		if !ob.Position.In(width, height) {
			err = configErr("objects", "%s at %s outside %dx%d grid", ob.Kind, ob.Position, width, height)
			return
		}
		if !ob.IsBlocking() {
			return
		}
		if prev, ok := blocking[ob.Position]; ok {
			err = configErr("objects", "%s and %s overlap at %s", prev, ob.Kind, ob.Position)
			return
		}
		blocking[ob.Position] = ob.Kind
	})
	return err
}

// firstOverlap returns a cell shared by two non-removed blocking objects.
func (o *Objects) firstOverlap() (object.Point, bool) {
	seen := map[object.Point]struct{}{}
	var hit object.Point
	found := false
	o.each(func(ob *object.Object) {
		if found || !ob.IsBlocking() {
			return
		}
		if _, ok := seen[ob.Position]; ok {
			hit, found = ob.Position, true
			return
		}
		seen[ob.Position] = struct{}{}
	})
	return hit, found
}

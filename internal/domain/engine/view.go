package engine

import "gridgym/internal/domain/object"

// View is a read-only window on the engine state handed to task predicates.
// Every accessor returns copies.
type View struct {
	objects *Objects
	width   int
	height  int
	steps   int
}

func (v View) Width() int { return v.width }

func (v View) Height() int { return v.height }

func (v View) StepCount() int { return v.steps }

func (v View) Agent() object.Object { return v.objects.Agent }

func (v View) Target() (object.Object, bool) {
	if v.objects.Target == nil {
		return object.Object{}, false
	}
	return *v.objects.Target, true
}

// Others returns the non-wall, non-agent, non-target objects in layout order.
func (v View) Others() []object.Object {
	return append([]object.Object(nil), v.objects.Other...)
}

// Find returns the first non-wall object matching pred.
func (v View) Find(pred func(object.Object) bool) (object.Object, bool) {
	var out object.Object
	found := false
	v.objects.nonWall(func(o *object.Object) {
		if !found && pred(*o) {
			out, found = *o, true
		}
	})
	return out, found
}

// AgentOnTarget reports whether the agent stands on a non-removed target.
func (v View) AgentOnTarget() bool {
	t, ok := v.Target()
	return ok && !t.IsRemoved() && t.Position == v.objects.Agent.Position
}

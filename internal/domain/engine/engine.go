// Package engine runs one grid environment: reset, step, simulate and the
// task check, over an object collection it owns exclusively.
package engine

import (
	"math"

	"golang.org/x/exp/rand"

	"gridgym/internal/domain/object"
	"gridgym/internal/domain/pov"
)

// ResetContext is handed to an environment reset hook after every object was
// restored to its start.
type ResetContext struct {
	Objects *Objects
	Width   int
	Height  int
	Rand    *rand.Rand
	// MinSteps may be changed by the hook when the layout changed.
	MinSteps int
}

// Environment is an initial layout plus the task predicate.
type Environment struct {
	Name     string
	Settings EnvironmentSettings
	Render   RenderSettings
	Objects  Objects
	Task     func(View) bool
	OnReset  func(*ResetContext)
}

type ResetOptions struct {
	Seed *uint64
}

func Seed(s uint64) ResetOptions {
	return ResetOptions{Seed: &s}
}

type Info struct {
	StepCount   int              `json:"step_count"`
	MinSteps    int              `json:"min_steps"`
	Position    object.Point     `json:"position"`
	Facing      object.Direction `json:"facing"`
	HeldKey     *object.Color    `json:"held_key,omitempty"`
	TaskDone    bool             `json:"task_done"`
	Harmed      bool             `json:"harmed"`
	Interaction string           `json:"interaction,omitempty"`
}

type StepResult struct {
	Observation pov.Observation `json:"observation"`
	Reward      float64         `json:"reward"`
	Terminated  bool            `json:"terminated"`
	Truncated   bool            `json:"truncated"`
	Info        Info            `json:"info"`
}

type state struct {
	objects  Objects
	src      rand.PCGSource
	steps    int
	minSteps int
}

func (s state) clone() state {
	out := s
	out.objects = s.objects.clone()
	return out
}

type Engine struct {
	name     string
	settings EnvironmentSettings
	render   RenderSettings
	pov      pov.POV
	task     func(View) bool
	onReset  func(*ResetContext)
	st       state
	closed   bool
}

// New validates env and resets it with seed 0. The layout in env is copied so
// the caller may reuse it.
func New(env Environment, p pov.POV) (*Engine, error) {
	if err := env.Settings.Validate(); err != nil {
		return nil, err
	}
	render := env.Render.withDefaults()
	if err := render.Validate(); err != nil {
		return nil, err
	}
	if env.Task == nil {
		return nil, configErr("task", "missing task predicate")
	}
	if p == nil {
		return nil, configErr("pov", "missing pov")
	}
	if err := p.Check(env.Settings.Width, env.Settings.Height); err != nil {
		return nil, &ConfigError{Field: "pov", Reason: p.Name(), Err: err}
	}
	if err := env.Objects.validate(env.Settings.Width, env.Settings.Height); err != nil {
		return nil, err
	}
	e := &Engine{
		name:     env.Name,
		settings: env.Settings,
		render:   render,
		pov:      p,
		task:     env.Task,
		onReset:  env.OnReset,
		st:       state{objects: env.Objects.clone()},
	}
	e.Reset(Seed(0))
	return e, nil
}

func (e *Engine) Name() string { return e.name }

func (e *Engine) Settings() EnvironmentSettings { return e.settings }

func (e *Engine) RenderSettings() RenderSettings { return e.render }

func (e *Engine) POV() pov.POV { return e.pov }

func (e *Engine) ActionSpace() pov.ActionSpace { return e.pov.ActionSpace() }

func (e *Engine) ObservationSpace() pov.ObservationSpace { return e.pov.ObservationSpace() }

func (e *Engine) Metadata() Metadata {
	return Metadata{RenderModes: append([]string(nil), renderModes...), RenderFPS: e.render.RenderFPS}
}

func (e *Engine) StepCount() int { return e.st.steps }

// Reset restores the start layout. The RNG is reseeded only when a seed is
// given.
func (e *Engine) Reset(opts ResetOptions) (pov.Observation, Info) {
	if opts.Seed != nil {
		e.st.src.Seed(*opts.Seed)
	}
	e.st.objects.reset()
	e.st.steps = 0
	e.st.minSteps = e.settings.MinSteps
	if e.onReset != nil {
		ctx := &ResetContext{
			Objects:  &e.st.objects,
			Width:    e.settings.Width,
			Height:   e.settings.Height,
			Rand:     rand.New(&e.st.src),
			MinSteps: e.st.minSteps,
		}
		e.onReset(ctx)
		if ctx.MinSteps > 0 {
			e.st.minSteps = ctx.MinSteps
		}
	}
	return e.pov.Observe(e.snapshot(&e.st)), e.info(&e.st, false, false)
}

// Step advances the live state by one action. On error the state is left as
// it was before the call.
func (e *Engine) Step(action int) (StepResult, error) {
	next := e.st.clone()
	res, err := e.transition(&next, action)
	if err != nil {
		return StepResult{}, err
	}
	e.st = next
	return res, nil
}

// Simulate runs the same transition as Step on a copy of the state and a
// fork of the RNG. The live engine is not touched.
func (e *Engine) Simulate(action int) (StepResult, error) {
	next := e.st.clone()
	return e.transition(&next, action)
}

func (e *Engine) transition(st *state, action int) (StepResult, error) {
	cmd, err := e.pov.Resolve(action)
	if err != nil {
		return StepResult{}, &ActionError{Action: action, Err: err}
	}
	rng := rand.New(&st.src)
	agent := &st.objects.Agent
	if cmd.SetFacing {
		agent.Face(cmd.Face)
	}

	var (
		reward      float64
		harmed      bool
		entered     *object.Object
		interaction string
	)
	target := agent.Front()
	front := e.frontObject(st, target)

	switch cmd.Action {
	case object.ActionForward:
		switch {
		case !target.In(e.settings.Width, e.settings.Height):
		case front == nil:
			agent.ApplyAgentAction(cmd.Action, true)
		case front.IsHarmful():
			harmed = true
		case front.IsWalkable():
			agent.ApplyAgentAction(cmd.Action, true)
			entered = front
		}
	case object.ActionTurnLeft, object.ActionTurnRight:
		agent.ApplyAgentAction(cmd.Action, false)
	case object.ActionInteract:
		if front != nil {
			interaction = front.Kind.String()
			reward += front.Interact(agent, object.InteractContext{
				Blocked: func(p object.Point) bool { return e.blocked(st, p) },
			})
		}
	}

	tick := func(o *object.Object) {
		if o.IsRemoved() || !o.Meta().Ticks {
			return
		}
		reward += o.Step(object.TickContext{Action: cmd.Action, Entered: o == entered, Rand: rng})
	}
	if st.objects.Target != nil {
		tick(st.objects.Target)
	}
	for i := range st.objects.Other {
		tick(&st.objects.Other[i])
	}

	if !harmed {
		harmed = e.harmfulAt(st, agent.Position)
	}
	if p, ok := st.objects.firstOverlap(); ok {
		return StepResult{}, &StateError{Position: p, Reason: "blocking objects overlap"}
	}

	st.steps++
	done := e.task(e.view(st))
	if done {
		bonus := float64(st.minSteps) / float64(st.steps)
		reward += e.settings.RewardRange.Max * math.Min(1, bonus)
	}
	if harmed {
		reward += e.settings.HarmPenalty
	}

	info := e.info(st, done, harmed)
	info.Interaction = interaction
	return StepResult{
		Observation: e.pov.Observe(e.snapshot(st)),
		Reward:      e.settings.RewardRange.Clamp(reward),
		Terminated:  done || harmed,
		Truncated:   st.steps >= e.settings.MaxSteps,
		Info:        info,
	}, nil
}

// frontObject picks the harmful object on p first, then a blocking one, then
// the first walkable one in collection order.
func (e *Engine) frontObject(st *state, p object.Point) *object.Object {
	var harmful, blocking, walkable *object.Object
	visit := func(o *object.Object) {
		if o.IsRemoved() || o.Position != p || o.Kind == object.KindAgent {
			return
		}
		switch {
		case o.IsHarmful():
			if harmful == nil {
				harmful = o
			}
		case o.IsBlocking():
			if blocking == nil {
				blocking = o
			}
		default:
			if walkable == nil {
				walkable = o
			}
		}
	}
	st.objects.each(visit)
	switch {
	case harmful != nil:
		return harmful
	case blocking != nil:
		return blocking
	default:
		return walkable
	}
}

func (e *Engine) blocked(st *state, p object.Point) bool {
	if !p.In(e.settings.Width, e.settings.Height) {
		return true
	}
	hit := false
	st.objects.each(func(o *object.Object) {
		if !hit && o.Position == p && o.IsBlocking() {
			hit = true
		}
	})
	return hit
}

func (e *Engine) harmfulAt(st *state, p object.Point) bool {
	for i := range st.objects.Other {
		o := &st.objects.Other[i]
		if o.Position == p && o.IsHarmful() {
			return true
		}
	}
	return false
}

func (e *Engine) view(st *state) View {
	return View{objects: &st.objects, width: e.settings.Width, height: e.settings.Height, steps: st.steps}
}

func (e *Engine) info(st *state, done, harmed bool) Info {
	a := st.objects.Agent
	info := Info{
		StepCount: st.steps,
		MinSteps:  st.minSteps,
		Position:  a.Position,
		Facing:    a.Facing(),
		TaskDone:  done,
		Harmed:    harmed,
	}
	if c, ok := a.HeldKey(); ok {
		info.HeldKey = &c
	}
	return info
}

func (e *Engine) snapshot(st *state) pov.Snapshot {
	w, h := e.settings.Width, e.settings.Height
	grid := make([][3]int, w*h)
	st.objects.each(func(o *object.Object) {
		if o.IsRemoved() || !o.Position.In(w, h) {
			return
		}
		grid[o.Position.Y*w+o.Position.X] = o.Identity()
	})
	return pov.Snapshot{
		Width:  w,
		Height: h,
		Grid:   grid,
		Agent:  st.objects.Agent.Position,
		Facing: st.objects.Agent.Facing(),
	}
}

// Snapshot returns the full grid state independent of the POV.
func (e *Engine) Snapshot() pov.Snapshot { return e.snapshot(&e.st) }

// Observe returns the current observation without stepping.
func (e *Engine) Observe() pov.Observation { return e.pov.Observe(e.snapshot(&e.st)) }

// CheckTask evaluates the task predicate on the live state.
func (e *Engine) CheckTask() bool { return e.task(e.view(&e.st)) }

func (e *Engine) View() View {
	cp := e.st.objects.clone()
	return View{objects: &cp, width: e.settings.Width, height: e.settings.Height, steps: e.st.steps}
}

// FindObject returns a copy of the first non-wall object matching pred.
func (e *Engine) FindObject(pred func(object.Object) bool) (object.Object, bool) {
	return e.view(&e.st).Find(pred)
}

// ObjectAt returns the object at p the way the agent would resolve it as its
// front object.
func (e *Engine) ObjectAt(p object.Point) (object.Object, bool) {
	o := e.frontObject(&e.st, p)
	if o == nil {
		return object.Object{}, false
	}
	return *o, true
}

// ObjectIDs lists the identifiers of the kinds currently on the grid, in
// identifier order.
func (e *Engine) ObjectIDs() []int {
	present := map[int]bool{}
	e.st.objects.each(func(o *object.Object) {
		if !o.IsRemoved() {
			present[o.Kind.Identifier()] = true
		}
	})
	var ids []int
	for _, k := range object.Kinds() {
		if present[k.Identifier()] {
			ids = append(ids, k.Identifier())
		}
	}
	return ids
}

// Close marks the engine closed. Closing twice has no effect.
func (e *Engine) Close() error {
	e.closed = true
	return nil
}

func (e *Engine) Closed() bool { return e.closed }

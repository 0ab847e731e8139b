package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gridgym/internal/domain/object"
	"gridgym/internal/domain/pov"
)

const (
	forward   = int(object.ActionForward)
	turnRight = int(object.ActionTurnRight)
	turnLeft  = int(object.ActionTurnLeft)
	interact  = int(object.ActionInteract)
)

func pt(x, y int) object.Point { return object.Point{X: x, Y: y} }

func reachTarget(v View) bool { return v.AgentOnTarget() }

func gridEnv(width, height int, agent object.Object, target *object.Object, walls []object.Object, other ...object.Object) Environment {
	s := DefaultEnvironmentSettings()
	s.Width, s.Height = width, height
	return Environment{
		Name:     "test",
		Settings: s,
		Objects:  Objects{Agent: agent, Target: target, Walls: walls, Other: other},
		Task:     reachTarget,
	}
}

func targetAt(p object.Point) *object.Object {
	t := object.NewTarget(p, object.ColorGreen)
	return &t
}

func mustEngine(t *testing.T, env Environment, p pov.POV) *Engine {
	t.Helper()
	if p == nil {
		p = pov.NewGlobal(env.Settings.Width, env.Settings.Height)
	}
	e, err := New(env, p)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func mustStep(t *testing.T, e *Engine, action int) StepResult {
	t.Helper()
	res, err := e.Step(action)
	if err != nil {
		t.Fatalf("step %d: %v", action, err)
	}
	return res
}

func TestLPathReachesTarget(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(4, 4)), nil)
	env.Settings.MinSteps = 9
	e := mustEngine(t, env, nil)

	actions := []int{forward, forward, forward, forward, turnRight, forward, forward, forward, forward}
	total := 0.0
	var last StepResult
	for i, a := range actions {
		last = mustStep(t, e, a)
		total += last.Reward
		if i < len(actions)-1 && last.Terminated {
			t.Fatalf("terminated early at step %d", i+1)
		}
	}
	if !last.Terminated || last.Truncated {
		t.Fatalf("final flags got terminated=%v truncated=%v", last.Terminated, last.Truncated)
	}
	if total != 1 {
		t.Fatalf("return got=%v want=1", total)
	}
	if last.Info.Position != pt(4, 4) {
		t.Fatalf("agent position got=%v want=(4,4)", last.Info.Position)
	}
}

func TestTerminalBonusScalesWithSteps(t *testing.T) {
	env := gridEnv(3, 1, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(2, 0)), nil)
	env.Settings.MinSteps = 2
	e := mustEngine(t, env, nil)
	mustStep(t, e, turnLeft)
	mustStep(t, e, turnRight)
	mustStep(t, e, forward)
	res := mustStep(t, e, forward)
	if !res.Terminated || res.Reward != 0.5 {
		t.Fatalf("got terminated=%v reward=%v want reward 0.5", res.Terminated, res.Reward)
	}
}

func TestWallBlocksMovement(t *testing.T) {
	walls := []object.Object{object.NewWall(pt(1, 0))}
	env := gridEnv(5, 5, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(4, 4)), walls)
	e := mustEngine(t, env, nil)

	res := mustStep(t, e, forward)
	if res.Info.Position != pt(0, 0) {
		t.Fatalf("agent moved through wall to %v", res.Info.Position)
	}
	if res.Reward != 0 || res.Terminated {
		t.Fatalf("blocked move got reward=%v terminated=%v", res.Reward, res.Terminated)
	}
	if res.Observation[0][0] != object.KindAgent.Identifier() || res.Observation[1][0] != object.KindWall.Identifier() {
		t.Fatalf("observation row 0 got=%v", res.Observation[:2])
	}
}

func TestGridEdgeBlocksMovement(t *testing.T) {
	e := mustEngine(t, gridEnv(2, 2, object.NewAgent(pt(0, 0), object.DirUp), nil, nil), nil)
	res := mustStep(t, e, forward)
	if res.Info.Position != pt(0, 0) {
		t.Fatalf("agent left the grid: %v", res.Info.Position)
	}
}

func keyDoorEnv(withKey bool) Environment {
	agent := object.NewAgent(pt(1, 2), object.DirRight)
	door := object.NewDoor(pt(3, 2), object.ColorBlue, object.DoorLocked)
	other := []object.Object{door}
	if withKey {
		other = append([]object.Object{object.NewKey(pt(2, 2), object.ColorBlue)}, other...)
	} else {
		agent = object.NewAgent(pt(2, 2), object.DirRight)
	}
	return gridEnv(5, 5, agent, targetAt(pt(4, 2)), nil, other...)
}

func isDoor(o object.Object) bool { return o.Kind == object.KindDoor }

func TestKeyOpensDoor(t *testing.T) {
	e := mustEngine(t, keyDoorEnv(true), nil)

	res := mustStep(t, e, interact)
	if res.Reward != 0 || res.Info.Interaction != "key" {
		t.Fatalf("key pickup got reward=%v interaction=%q", res.Reward, res.Info.Interaction)
	}
	key, _ := e.FindObject(func(o object.Object) bool { return o.Kind == object.KindKey })
	if !key.IsRemoved() {
		t.Fatalf("key still on grid at %v", key.Position)
	}
	if res.Info.HeldKey == nil || *res.Info.HeldKey != object.ColorBlue {
		t.Fatalf("held key got=%v", res.Info.HeldKey)
	}

	res = mustStep(t, e, forward)
	if res.Info.Position != pt(2, 2) {
		t.Fatalf("agent position got=%v want=(2,2)", res.Info.Position)
	}
	mustStep(t, e, interact)
	door, ok := e.FindObject(isDoor)
	if !ok || door.State != object.DoorOpen || !door.IsWalkable() {
		t.Fatalf("door should be open, got %+v", door)
	}
	res = mustStep(t, e, forward)
	if res.Info.Position != pt(3, 2) {
		t.Fatalf("agent should walk through open door, got %v", res.Info.Position)
	}
}

func TestDoorStaysLockedWithoutKey(t *testing.T) {
	e := mustEngine(t, keyDoorEnv(false), nil)
	mustStep(t, e, interact)
	door, _ := e.FindObject(isDoor)
	if door.State != object.DoorLocked || door.IsWalkable() {
		t.Fatalf("door opened without key: %+v", door)
	}
	res := mustStep(t, e, forward)
	if res.Info.Position != pt(2, 2) {
		t.Fatalf("agent walked into locked door: %v", res.Info.Position)
	}
}

func TestEnemyContactTerminates(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(3, 2), object.DirDown), targetAt(pt(0, 0)), nil,
		object.NewEnemy(pt(3, 3), object.DirRight, 0))
	env.Settings.RewardRange = RewardRange{Min: -1, Max: 1}
	env.Settings.HarmPenalty = -1
	e := mustEngine(t, env, nil)

	res := mustStep(t, e, forward)
	if !res.Terminated || res.Truncated {
		t.Fatalf("got terminated=%v truncated=%v", res.Terminated, res.Truncated)
	}
	if res.Reward != -1 || !res.Info.Harmed {
		t.Fatalf("got reward=%v harmed=%v want -1", res.Reward, res.Info.Harmed)
	}
	if res.Info.Position != pt(3, 2) {
		t.Fatalf("agent should not enter the enemy cell, got %v", res.Info.Position)
	}
}

func TestEnemyDefaultPenaltyIsZero(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(3, 2), object.DirDown), targetAt(pt(0, 0)), nil,
		object.NewEnemy(pt(3, 3), object.DirRight, 0))
	e := mustEngine(t, env, nil)
	res := mustStep(t, e, forward)
	if !res.Terminated || res.Reward != 0 {
		t.Fatalf("got terminated=%v reward=%v", res.Terminated, res.Reward)
	}
}

func TestPatrollingEnemyWalksIntoAgent(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(1, 2), object.DirUp), targetAt(pt(4, 4)), nil,
		object.NewEnemy(pt(1, 0), object.DirDown, 2))
	e := mustEngine(t, env, nil)
	res := mustStep(t, e, turnLeft)
	if res.Terminated {
		t.Fatalf("enemy is still one cell away")
	}
	res = mustStep(t, e, turnLeft)
	if !res.Terminated || !res.Info.Harmed {
		t.Fatalf("enemy reached the agent, got terminated=%v", res.Terminated)
	}
}

func TestTruncationAtMaxSteps(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(4, 4)), nil)
	env.Settings.MaxSteps = 10
	e := mustEngine(t, env, nil)
	for i := 1; i <= 10; i++ {
		res := mustStep(t, e, turnLeft)
		want := i == 10
		if res.Truncated != want || res.Terminated {
			t.Fatalf("step %d got truncated=%v terminated=%v", i, res.Truncated, res.Terminated)
		}
	}
	if e.StepCount() != 10 {
		t.Fatalf("step count got=%d", e.StepCount())
	}
}

func randomEnv() Environment {
	return gridEnv(6, 4, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(5, 3)), nil,
		object.NewRandomBlock(pt(3, 1)),
		object.NewRandomBlock(pt(4, 2)),
		object.NewEnemy(pt(0, 3), object.DirRight, 3),
	)
}

func TestDeterminism(t *testing.T) {
	actions := []int{forward, turnRight, forward, interact, turnLeft, forward, forward, turnLeft, forward, interact}
	run := func() ([]pov.Observation, []StepResult) {
		e := mustEngine(t, randomEnv(), pov.NewLocal(2, false))
		obs, _ := e.Reset(Seed(42))
		var out []StepResult
		for _, a := range actions {
			out = append(out, mustStep(t, e, a))
		}
		return []pov.Observation{obs}, out
	}
	obsA, resA := run()
	obsB, resB := run()
	if diff := cmp.Diff(obsA, obsB); diff != "" {
		t.Fatalf("initial observations differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(resA, resB); diff != "" {
		t.Fatalf("step results differ (-a +b):\n%s", diff)
	}
}

func TestResetWithoutSeedKeepsRNGStream(t *testing.T) {
	e := mustEngine(t, randomEnv(), nil)
	e.Reset(Seed(7))
	first := mustStep(t, e, turnLeft)
	e.Reset(Seed(7))
	again := mustStep(t, e, turnLeft)
	if diff := cmp.Diff(first, again); diff != "" {
		t.Fatalf("reseeded run differs:\n%s", diff)
	}
}

func TestSimulateMatchesStep(t *testing.T) {
	e := mustEngine(t, randomEnv(), nil)
	e.Reset(Seed(3))
	for i, a := range []int{forward, turnRight, forward, forward, interact, turnLeft} {
		before := e.Snapshot()
		sim, err := e.Simulate(a)
		if err != nil {
			t.Fatalf("simulate: %v", err)
		}
		again, _ := e.Simulate(a)
		if diff := cmp.Diff(sim, again); diff != "" {
			t.Fatalf("simulate consumed live state at %d:\n%s", i, diff)
		}
		if diff := cmp.Diff(before, e.Snapshot()); diff != "" {
			t.Fatalf("simulate mutated live grid at %d:\n%s", i, diff)
		}
		if e.StepCount() != i {
			t.Fatalf("simulate advanced step count to %d", e.StepCount())
		}
		real := mustStep(t, e, a)
		if diff := cmp.Diff(sim, real); diff != "" {
			t.Fatalf("simulate and step differ at %d (-sim +step):\n%s", i, diff)
		}
	}
}

func TestIdempotentConstruction(t *testing.T) {
	a := mustEngine(t, randomEnv(), pov.NewForward(3, 3, false))
	b := mustEngine(t, randomEnv(), pov.NewForward(3, 3, false))
	obsA, infoA := a.Reset(Seed(11))
	obsB, infoB := b.Reset(Seed(11))
	if diff := cmp.Diff(obsA, obsB); diff != "" {
		t.Fatalf("initial observations differ:\n%s", diff)
	}
	if infoA != infoB {
		t.Fatalf("infos differ: %+v vs %+v", infoA, infoB)
	}
}

func TestRewardClampedToRange(t *testing.T) {
	env := gridEnv(4, 1, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(3, 0)), nil,
		object.NewSmallReward(pt(1, 0), 5))
	e := mustEngine(t, env, nil)
	res := mustStep(t, e, forward)
	if res.Reward != 1 {
		t.Fatalf("reward got=%v want clamp to 1", res.Reward)
	}
	res = mustStep(t, e, turnLeft)
	if res.Reward != 0 {
		t.Fatalf("small reward paid twice: %v", res.Reward)
	}
}

func TestRemovedObjectsLeaveFrontResolution(t *testing.T) {
	e := mustEngine(t, keyDoorEnv(true), nil)
	if _, ok := e.ObjectAt(pt(2, 2)); !ok {
		t.Fatalf("key should be at (2,2)")
	}
	mustStep(t, e, interact)
	if o, ok := e.ObjectAt(pt(2, 2)); ok {
		t.Fatalf("removed key still resolved: %+v", o)
	}
	if got := e.ObjectIDs(); !cmp.Equal(got, []int{1, 3, 4}) {
		t.Fatalf("object ids got=%v want=[1 3 4]", got)
	}
	e.Reset(ResetOptions{})
	if _, ok := e.ObjectAt(pt(2, 2)); !ok {
		t.Fatalf("reset should restore the key")
	}
}

func TestInvalidActionLeavesStateUntouched(t *testing.T) {
	e := mustEngine(t, keyDoorEnv(true), nil)
	_, err := e.Step(9)
	if !errors.Is(err, ErrInvalidAction) || !errors.Is(err, pov.ErrUnknownAction) {
		t.Fatalf("expected invalid action, got %v", err)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Action != 9 {
		t.Fatalf("expected *ActionError for 9, got %v", err)
	}
	if e.StepCount() != 0 {
		t.Fatalf("step count moved to %d", e.StepCount())
	}
	if _, err := e.Simulate(-1); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("simulate should reject invalid actions, got %v", err)
	}
}

func TestBlockingOverlapIsStateError(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(0, 0), object.DirRight), nil, []object.Object{object.NewWall(pt(2, 2))},
		object.NewBall(pt(3, 3), object.Zone{}, object.ColorPurple))
	env.OnReset = func(ctx *ResetContext) {
		ctx.Objects.Other[0].Position = pt(2, 2)
	}
	e := mustEngine(t, env, nil)
	_, err := e.Step(turnLeft)
	var se *StateError
	if !errors.As(err, &se) || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected *StateError, got %v", err)
	}
	if se.Position != pt(2, 2) {
		t.Fatalf("overlap position got=%v", se.Position)
	}
}

func TestResetHookChangesMinSteps(t *testing.T) {
	env := gridEnv(5, 5, object.NewAgent(pt(0, 0), object.DirRight), targetAt(pt(4, 0)), nil)
	env.OnReset = func(ctx *ResetContext) {
		ctx.Objects.Target.Position = pt(1+ctx.Rand.Intn(3), 0)
		ctx.MinSteps = ctx.Objects.Target.Position.X
	}
	e := mustEngine(t, env, nil)
	_, info := e.Reset(Seed(5))
	target, _ := e.View().Target()
	if info.MinSteps != target.Position.X {
		t.Fatalf("min steps got=%d want=%d", info.MinSteps, target.Position.X)
	}
}

func TestBallPushedByAgent(t *testing.T) {
	env := gridEnv(5, 1, object.NewAgent(pt(0, 0), object.DirRight), nil, []object.Object{object.NewWall(pt(4, 0))},
		object.NewBall(pt(1, 0), object.Zone{}, object.ColorPurple))
	env.Task = func(v View) bool {
		b, ok := v.Find(func(o object.Object) bool { return o.Kind == object.KindBall })
		return ok && b.Position == pt(3, 0)
	}
	e := mustEngine(t, env, nil)
	mustStep(t, e, interact)
	mustStep(t, e, forward)
	res := mustStep(t, e, interact)
	if !res.Terminated {
		t.Fatalf("ball should reach (3,0)")
	}
	mustStep(t, e, forward)
	mustStep(t, e, interact)
	ball, _ := e.FindObject(func(o object.Object) bool { return o.Kind == object.KindBall })
	if ball.Position != pt(3, 0) {
		t.Fatalf("ball pushed into wall: %v", ball.Position)
	}
}

func TestAbsoluteActions(t *testing.T) {
	env := gridEnv(3, 3, object.NewAgent(pt(1, 1), object.DirRight), nil, nil)
	e := mustEngine(t, env, pov.NewGlobalAbsolute(3, 3))
	res := mustStep(t, e, 0)
	if res.Info.Position != pt(1, 0) || res.Info.Facing != object.DirUp {
		t.Fatalf("up got pos=%v facing=%v", res.Info.Position, res.Info.Facing)
	}
	res = mustStep(t, e, 2)
	if res.Info.Position != pt(0, 0) || res.Info.Facing != object.DirLeft {
		t.Fatalf("left got pos=%v facing=%v", res.Info.Position, res.Info.Facing)
	}
}

func TestConfigErrors(t *testing.T) {
	agent := object.NewAgent(pt(0, 0), object.DirRight)
	cases := []struct {
		name   string
		mutate func(*Environment)
		pov    pov.POV
	}{
		{name: "zero width", mutate: func(e *Environment) { e.Settings.Width = 0 }},
		{name: "max steps", mutate: func(e *Environment) { e.Settings.MaxSteps = 0 }},
		{name: "reward range", mutate: func(e *Environment) { e.Settings.RewardRange = RewardRange{Min: 1, Max: 0} }},
		{name: "render mode", mutate: func(e *Environment) { e.Render.RenderMode = "human" }},
		{name: "missing task", mutate: func(e *Environment) { e.Task = nil }},
		{name: "missing agent", mutate: func(e *Environment) { e.Objects.Agent = object.Object{} }},
		{name: "duplicate agent", mutate: func(e *Environment) { e.Objects.Other = append(e.Objects.Other, agent) }},
		{name: "out of bounds", mutate: func(e *Environment) { e.Objects.Walls = append(e.Objects.Walls, object.NewWall(pt(5, 0))) }},
		{name: "overlap", mutate: func(e *Environment) {
			e.Objects.Walls = append(e.Objects.Walls, object.NewWall(pt(2, 2)))
			e.Objects.Other = append(e.Objects.Other, object.NewBall(pt(2, 2), object.Zone{}, object.ColorRed))
		}},
		{name: "agent on wall", mutate: func(e *Environment) { e.Objects.Walls = append(e.Objects.Walls, object.NewWall(pt(0, 0))) }},
		{name: "pov size", mutate: func(*Environment) {}, pov: pov.NewGlobal(4, 4)},
		{name: "forward width", mutate: func(*Environment) {}, pov: pov.NewForward(2, 2, false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := gridEnv(5, 5, agent, targetAt(pt(4, 4)), nil)
			tc.mutate(&env)
			p := tc.pov
			if p == nil {
				p = pov.NewGlobal(5, 5)
			}
			_, err := New(env, p)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestStackedWalkableObjectsAreAllowed(t *testing.T) {
	env := gridEnv(5, 5, agentAt(0, 0), nil, nil,
		object.NewKey(pt(2, 2), object.ColorRed),
		object.NewSmallReward(pt(2, 2), 0.1))
	if _, err := New(env, pov.NewGlobal(5, 5)); err != nil {
		t.Fatalf("walkable objects may share a cell: %v", err)
	}
}

func agentAt(x, y int) object.Object { return object.NewAgent(pt(x, y), object.DirRight) }

func TestMetadataAndSpaces(t *testing.T) {
	e := mustEngine(t, gridEnv(5, 5, agentAt(0, 0), nil, nil), pov.NewLocal(1, false))
	md := e.Metadata()
	if md.RenderFPS != 4 || !cmp.Equal(md.RenderModes, []string{RenderNone, RenderANSI}) {
		t.Fatalf("metadata got=%+v", md)
	}
	if e.ActionSpace().N != 4 || e.ObservationSpace().Cells != 9 {
		t.Fatalf("spaces got=%+v %+v", e.ActionSpace(), e.ObservationSpace())
	}
	if err := e.Close(); err != nil || !e.Closed() {
		t.Fatalf("close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

type recordingRenderer struct {
	kinds []object.Kind
	cell  float64
}

func (r *recordingRenderer) Draw(o object.Object, _ Canvas, cellSize float64) {
	r.kinds = append(r.kinds, o.Kind)
	r.cell = cellSize
}

type fixedCanvas struct{ w, h int }

func (c fixedCanvas) Size() (int, int) { return c.w, c.h }

func TestRenderOrder(t *testing.T) {
	env := gridEnv(5, 5, agentAt(0, 0), targetAt(pt(4, 4)), []object.Object{object.NewWall(pt(2, 0))},
		object.NewKey(pt(1, 1), object.ColorBlue))
	env.Render.RenderMode = RenderANSI
	e := mustEngine(t, env, nil)
	r := &recordingRenderer{}
	e.Render(fixedCanvas{w: 100, h: 50}, r)
	want := []object.Kind{object.KindTarget, object.KindKey, object.KindWall, object.KindAgent}
	if diff := cmp.Diff(want, r.kinds); diff != "" {
		t.Fatalf("paint order (-want +got):\n%s", diff)
	}
	if r.cell != 10 {
		t.Fatalf("cell size got=%v want=10", r.cell)
	}
}

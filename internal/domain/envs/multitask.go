package envs

import (
	"fmt"

	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/object"
)

// Positions of the ball objective in the multitask Other slice.
const (
	multitaskBallTarget = 2
	multitaskBall       = 3
)

var multitaskBallZone = object.Zone{Low: pt(13, 1), High: pt(17, 5)}

// buildMultitask lays out three rooms. Task 1 needs the key, the door and the
// green target on the left. Task 2 needs the ball pushed onto the purple
// target on the right.
func buildMultitask(opts Options) (engine.Environment, error) {
	task := opts.Task
	if task == 0 {
		task = 1
	}
	if task != 1 && task != 2 {
		return engine.Environment{}, &engine.ConfigError{Field: "options.task", Reason: fmt.Sprintf("want 1 or 2, got %d", task)}
	}
	w, err := walls(mapMultitask)
	if err != nil {
		return engine.Environment{}, err
	}

	env := engine.Environment{
		Settings: settings(19, 7, 15, 50),
		Render:   renderFor(19, 7, 1200),
		Objects: engine.Objects{
			Agent:  object.NewAgent(pt(9, 3), object.DirUp),
			Target: target(pt(3, 3)),
			Walls:  w,
			Other: []object.Object{
				object.NewDoor(pt(6, 3), object.ColorRed, object.DoorLocked),
				object.NewKey(pt(7, 1), object.ColorRed),
				object.NewTarget(pt(15, 3), object.ColorPurple),
				object.NewBall(pt(12, 3), multitaskBallZone, object.ColorPurple),
			},
		},
		Task:    reachTarget,
		OnReset: multitaskReset(task, opts.RandomTargets),
	}
	if task == 2 {
		env.Settings.MinSteps = 8
		env.Task = ballOnTarget
	}
	return env, nil
}

func ballOnTarget(v engine.View) bool {
	others := v.Others()
	ball, goal := others[multitaskBall], others[multitaskBallTarget]
	return !ball.IsRemoved() && ball.Position == goal.Position
}

func multitaskReset(task int, random bool) func(*engine.ResetContext) {
	return func(ctx *engine.ResetContext) {
		goal := &ctx.Objects.Other[multitaskBallTarget]
		if random {
			ctx.Objects.Target.Position = pt(1+ctx.Rand.Intn(5), 1+ctx.Rand.Intn(5))
			goal.Position = pt(14+ctx.Rand.Intn(4), 1+ctx.Rand.Intn(5))
		}
		if task == 1 {
			p := ctx.Objects.Target.Position
			ctx.MinSteps = 18 - p.X + abs(3-p.Y) + boolInt(p.Y != 3)
			return
		}
		p := goal.Position
		ctx.MinSteps = 2*p.X - 22 + boolInt(p.Y != 3)*(2*abs(p.Y-3)+5)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

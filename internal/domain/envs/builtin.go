package envs

import (
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/object"
)

func pt(x, y int) object.Point { return object.Point{X: x, Y: y} }

func buildEmpty(Options) (engine.Environment, error) {
	return engine.Environment{
		Settings: settings(5, 5, 9, 50),
		Render:   renderFor(5, 5, 512),
		Objects: engine.Objects{
			Agent:  object.NewAgent(pt(0, 0), object.DirRight),
			Target: target(pt(4, 4)),
		},
		Task: reachTarget,
	}, nil
}

func buildSparse(Options) (engine.Environment, error) {
	w, err := walls(mapSparse)
	if err != nil {
		return engine.Environment{}, err
	}
	return engine.Environment{
		Settings: settings(15, 11, 66, 100),
		Render:   renderFor(15, 11, 800),
		Objects: engine.Objects{
			Agent:  object.NewAgent(pt(1, 1), object.DirRight),
			Target: target(pt(7, 4)),
			Walls:  w,
			Other: []object.Object{
				object.NewKey(pt(5, 2), object.ColorRed),
				object.NewDoor(pt(9, 2), object.ColorRed, object.DoorLocked),
				object.NewKey(pt(13, 1), object.ColorBlue),
				object.NewDoor(pt(12, 4), object.ColorBlue, object.DoorLocked),
				object.NewKey(pt(11, 8), object.ColorYellow),
				object.NewDoor(pt(8, 6), object.ColorYellow, object.DoorLocked),
				object.NewEnemy(pt(10, 9), object.DirUp, 4),
				object.NewKey(pt(5, 6), object.ColorCyan),
				object.NewDoor(pt(4, 8), object.ColorCyan, object.DoorLocked),
				object.NewRandomBlock(pt(6, 6)),
				object.NewEnemy(pt(1, 5), object.DirRight, 2),
			},
		},
		Task: reachTarget,
	}, nil
}

func buildDistractive(Options) (engine.Environment, error) {
	w, err := walls(mapDistractive)
	if err != nil {
		return engine.Environment{}, err
	}
	return engine.Environment{
		Settings: settings(23, 7, 39, 50),
		Render:   renderFor(23, 7, 1200),
		Objects: engine.Objects{
			Agent:  object.NewAgent(pt(11, 1), object.DirDown),
			Target: target(pt(21, 5)),
			Walls:  w,
			Other: []object.Object{
				object.NewSmallReward(pt(8, 5), 0.1),
				object.NewSmallReward(pt(6, 1), 0.1),
				object.NewSmallReward(pt(4, 5), 0.1),
				object.NewSmallReward(pt(2, 1), 0.1),
				object.NewSmallReward(pt(1, 5), 0.1),
			},
		},
		Task: reachTarget,
	}, nil
}

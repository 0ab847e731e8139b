// Package envs holds the built-in environments: a layout plus the task
// predicate each.
package envs

import (
	"errors"
	"fmt"
	"sort"

	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/object"
)

var ErrUnknownEnv = errors.New("unknown environment")

type Options struct {
	// Task selects the multitask objective, 1 or 2.
	Task int `json:"task,omitempty"`
	// RandomTargets redraws target positions on every reset.
	RandomTargets bool                  `json:"random_targets,omitempty"`
	Render        engine.RenderSettings `json:"render"`
}

type builder func(Options) (engine.Environment, error)

type entry struct {
	build       builder
	description string
}

var registry = map[string]entry{
	"empty":       {build: buildEmpty, description: "5x5 open grid, reach the target"},
	"sparse":      {build: buildSparse, description: "five rooms behind locked doors, enemies and a random block"},
	"distractive": {build: buildDistractive, description: "small rewards on the left, the sparse target on the right"},
	"multitask":   {build: buildMultitask, description: "key and door task or ball push task"},
}

// Lookup builds a fresh environment by name. Each call returns an
// independent layout.
func Lookup(name string, opts Options) (engine.Environment, error) {
	e, ok := registry[name]
	if !ok {
		return engine.Environment{}, fmt.Errorf("%w: %q", ErrUnknownEnv, name)
	}
	env, err := e.build(opts)
	if err != nil {
		return engine.Environment{}, err
	}
	env.Name = name
	if opts.Render.RenderMode != "" {
		env.Render = opts.Render
	}
	return env, nil
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MinSteps    int    `json:"min_steps"`
	MaxSteps    int    `json:"max_steps"`
}

// Describe lists every environment with its default settings.
func Describe() []Info {
	var out []Info
	for _, name := range Names() {
		env, err := Lookup(name, Options{})
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:        name,
			Description: registry[name].description,
			Width:       env.Settings.Width,
			Height:      env.Settings.Height,
			MinSteps:    env.Settings.MinSteps,
			MaxSteps:    env.Settings.MaxSteps,
		})
	}
	return out
}

func reachTarget(v engine.View) bool {
	return v.AgentOnTarget()
}

func settings(width, height, minSteps, maxSteps int) engine.EnvironmentSettings {
	s := engine.DefaultEnvironmentSettings()
	s.Width, s.Height = width, height
	s.MinSteps, s.MaxSteps = minSteps, maxSteps
	return s
}

func renderFor(width, height, windowWidth int) engine.RenderSettings {
	r := engine.DefaultRenderSettings()
	r.WindowWidth = windowWidth
	r.WindowHeight = windowWidth * height / width
	return r
}

func target(p object.Point) *object.Object {
	t := object.NewTarget(p, object.ColorGreen)
	return &t
}

func walls(rows []string) ([]object.Object, error) {
	return engine.LoadWalls(engine.WallLayout{Map: rows})
}

package rollout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gridgym/internal/domain/engine"
)

var ErrInvalidConfig = errors.New("invalid rollout config")

// Factory builds a fresh engine. Each runner owns the engines it builds.
type Factory func() (*engine.Engine, error)

type Config struct {
	Episodes int
	// Horizon caps steps per episode on top of the engine's own truncation;
	// 0 leaves it to the engine.
	Horizon int
	// Seed of episode i is Seed+i.
	Seed uint64
}

type Runner struct {
	New    Factory
	Policy Policy
	Config Config
}

func (r Runner) Run(ctx context.Context) (Report, error) {
	if r.New == nil || r.Policy == nil {
		return Report{}, fmt.Errorf("%w: factory and policy are required", ErrInvalidConfig)
	}
	if r.Config.Episodes <= 0 || r.Config.Horizon < 0 {
		return Report{}, fmt.Errorf("%w: episodes=%d horizon=%d", ErrInvalidConfig, r.Config.Episodes, r.Config.Horizon)
	}
	eng, err := r.New()
	if err != nil {
		return Report{}, err
	}
	defer eng.Close()

	s := eng.Settings()
	report := Report{
		Policy: r.Policy.Name(),
		Env:    eng.Name(),
		Width:  s.Width,
		Height: s.Height,
		Visits: newGrid(s.Width, s.Height),
	}
	actions := eng.ActionSpace().N
	for i := 0; i < r.Config.Episodes; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := r.episode(eng, i, actions, report.Visits)
		if err != nil {
			return report, fmt.Errorf("episode %d: %w", i, err)
		}
		report.Episodes = append(report.Episodes, res)
	}
	report.Summary = Summarize(report.Episodes)
	return report, nil
}

func (r Runner) episode(eng *engine.Engine, i, actions int, visits [][]int) (EpisodeResult, error) {
	obs, info := eng.Reset(engine.Seed(r.Config.Seed + uint64(i)))
	trace := NewTrace()
	res := EpisodeResult{Index: i, MinSteps: info.MinSteps}
	mark(visits, info.Position.X, info.Position.Y)

	finished := false
	for step := 0; r.Config.Horizon == 0 || step < r.Config.Horizon; step++ {
		a, ok := r.Policy.NextAction(step, obs, actions)
		if !ok {
			break
		}
		out, err := eng.Step(a)
		if err != nil {
			return res, err
		}
		trace.Append(Transition{
			State:     HashObservation(obs),
			Action:    a,
			NextState: HashObservation(out.Observation),
			Reward:    out.Reward,
			Position:  out.Info.Position,
		})
		mark(visits, out.Info.Position.X, out.Info.Position.Y)
		res.Return += out.Reward
		res.Steps = out.Info.StepCount
		obs = out.Observation
		if out.Terminated || out.Truncated {
			res.Solved = out.Info.TaskDone
			res.Harmed = out.Info.Harmed
			res.Truncated = out.Truncated && !out.Terminated
			finished = true
			break
		}
	}
	if !finished && res.Steps > 0 && res.Steps == r.Config.Horizon {
		res.Truncated = true
	}
	res.UniqueStates = uniqueStates(trace)
	r.Policy.UpdateIteration(i, trace)
	res.Trace = trace
	return res, nil
}

// RunAll runs every runner on its own goroutine. Reports keep the runner
// order; the first error wins.
func RunAll(ctx context.Context, runners []Runner) ([]Report, error) {
	reports := make([]Report, len(runners))
	errs := make([]error, len(runners))
	var wg sync.WaitGroup
	for i, r := range runners {
		wg.Add(1)
		go func(i int, r Runner) {
			defer wg.Done()
			reports[i], errs[i] = r.Run(ctx)
		}(i, r)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func newGrid(w, h int) [][]int {
	g := make([][]int, h)
	for y := range g {
		g[y] = make([]int, w)
	}
	return g
}

func mark(g [][]int, x, y int) {
	if y >= 0 && y < len(g) && x >= 0 && x < len(g[y]) {
		g[y][x]++
	}
}

func uniqueStates(t *Trace) int {
	seen := make(map[string]struct{}, t.Len())
	for i := 0; i < t.Len(); i++ {
		tr, _ := t.Get(i)
		seen[tr.State] = struct{}{}
		seen[tr.NextState] = struct{}{}
	}
	return len(seen)
}

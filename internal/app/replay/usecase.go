package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gridgym/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// Outcomes reported by a summary.
const (
	OutcomeRunning   = "running"
	OutcomeSolved    = "solved"
	OutcomeHarmed    = "harmed"
	OutcomeTruncated = "truncated"
)

type UseCase struct {
	// TxManager is optional; reads run inside it when set.
	TxManager ports.TxManager
	Episodes  ports.EpisodeRepository
	Steps     ports.StepRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EpisodeID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.Run < 0 || req.FromStep < 0 || req.ToStep < 0 || req.Limit < 0 {
		return Response{}, fmt.Errorf("%w: negative bound", ErrInvalidRequest)
	}
	if req.ToStep > 0 && req.FromStep > req.ToStep {
		return Response{}, fmt.Errorf("%w: from_step after to_step", ErrInvalidRequest)
	}
	var (
		run   int
		steps []ports.StepRecord
	)
	err := u.runInTx(ctx, func(ctx context.Context) error {
		rec, err := u.Episodes.Get(ctx, req.EpisodeID)
		if err != nil {
			return err
		}
		run = req.Run
		if run == 0 {
			run = rec.Run
		}
		// A run without steps yet replays as empty.
		steps, err = u.Steps.ListByEpisode(ctx, req.EpisodeID, run, 0)
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	summary := summarize(steps)
	summary.EpisodeID = req.EpisodeID
	summary.Run = run

	steps = filterByStepWindow(steps, req.FromStep, req.ToStep)
	if req.Limit > 0 && len(steps) > req.Limit {
		steps = steps[:req.Limit]
	}
	return Response{Steps: steps, Summary: summary}, nil
}

func (u UseCase) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u.TxManager == nil {
		return fn(ctx)
	}
	return u.TxManager.RunInTx(ctx, fn)
}

func filterByStepWindow(steps []ports.StepRecord, from, to int) []ports.StepRecord {
	if from <= 0 && to <= 0 {
		return steps
	}
	out := make([]ports.StepRecord, 0, len(steps))
	for _, s := range steps {
		if from > 0 && s.Index < from {
			continue
		}
		if to > 0 && s.Index > to {
			continue
		}
		out = append(out, s)
	}
	return out
}

// summarize folds a full run; the last step decides the outcome.
func summarize(steps []ports.StepRecord) Summary {
	sum := Summary{Outcome: OutcomeRunning}
	for _, s := range steps {
		sum.Steps = s.Index
		sum.Return += s.Reward
		sum.X, sum.Y, sum.Facing = s.X, s.Y, s.Facing
		sum.HeldKey = s.HeldKey
		if s.Harmed {
			sum.Harmed++
		}
		sum.Outcome = outcome(s)
	}
	return sum
}

func outcome(s ports.StepRecord) string {
	switch {
	case s.TaskDone:
		return OutcomeSolved
	case s.Harmed:
		return OutcomeHarmed
	case s.Truncated:
		return OutcomeTruncated
	default:
		return OutcomeRunning
	}
}

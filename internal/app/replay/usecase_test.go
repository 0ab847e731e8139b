package replay

import (
	"context"
	"errors"
	"testing"

	"gridgym/internal/app/ports"
)

func TestUseCase_SummarizesLatestRun(t *testing.T) {
	key := 0
	repo := fakeRepo{
		episode: ports.EpisodeRecord{EpisodeID: "ep-1", Run: 2},
		steps: []ports.StepRecord{
			{EpisodeID: "ep-1", Run: 1, Index: 1, X: 9, Y: 9},
			{EpisodeID: "ep-1", Run: 2, Index: 1, X: 1, Y: 0},
			{EpisodeID: "ep-1", Run: 2, Index: 2, X: 1, Y: 1, HeldKey: &key, Reward: 0.25},
			{EpisodeID: "ep-1", Run: 2, Index: 3, X: 2, Y: 1, Facing: 3, HeldKey: &key, Reward: 0.5, Terminated: true, TaskDone: true},
		},
	}

	uc := UseCase{Episodes: repo, Steps: repo}
	out, err := uc.Execute(context.Background(), Request{EpisodeID: "ep-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(out.Steps))
	}
	s := out.Summary
	if s.Run != 2 || s.Steps != 3 || s.Return != 0.75 || s.X != 2 || s.Y != 1 || s.Facing != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Outcome != OutcomeSolved || s.HeldKey == nil {
		t.Fatalf("expected solved with key, got %+v", s)
	}
}

func TestUseCase_StepWindowKeepsFullSummary(t *testing.T) {
	repo := fakeRepo{
		episode: ports.EpisodeRecord{EpisodeID: "ep-2", Run: 1},
		steps: []ports.StepRecord{
			{EpisodeID: "ep-2", Run: 1, Index: 1},
			{EpisodeID: "ep-2", Run: 1, Index: 2, Harmed: true, Terminated: true},
			{EpisodeID: "ep-2", Run: 1, Index: 3, Truncated: true},
		},
	}
	uc := UseCase{Episodes: repo, Steps: repo}
	out, err := uc.Execute(context.Background(), Request{EpisodeID: "ep-2", Run: 1, FromStep: 2, ToStep: 2})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Steps) != 1 || out.Steps[0].Index != 2 {
		t.Fatalf("unexpected window: %+v", out.Steps)
	}
	if out.Summary.Steps != 3 || out.Summary.Harmed != 1 || out.Summary.Outcome != OutcomeTruncated {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}
}

func TestUseCase_RejectsBadRequests(t *testing.T) {
	uc := UseCase{Episodes: fakeRepo{}, Steps: fakeRepo{}}
	for _, req := range []Request{
		{},
		{EpisodeID: "ep", FromStep: 4, ToStep: 2},
		{EpisodeID: "ep", Limit: -1},
	} {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestUseCase_MissingEpisode(t *testing.T) {
	uc := UseCase{Episodes: fakeRepo{}, Steps: fakeRepo{}}
	if _, err := uc.Execute(context.Background(), Request{EpisodeID: "nope"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeRepo struct {
	episode ports.EpisodeRecord
	steps   []ports.StepRecord
}

func (r fakeRepo) Create(_ context.Context, _ ports.EpisodeRecord) error { return nil }

func (r fakeRepo) Get(_ context.Context, id string) (ports.EpisodeRecord, error) {
	if r.episode.EpisodeID != id {
		return ports.EpisodeRecord{}, ports.ErrNotFound
	}
	return r.episode, nil
}

func (r fakeRepo) SaveWithVersion(_ context.Context, _ ports.EpisodeRecord, _ int64) error {
	return nil
}

func (r fakeRepo) Append(_ context.Context, _ []ports.StepRecord) error { return nil }

func (r fakeRepo) ListByEpisode(_ context.Context, id string, run int, _ int) ([]ports.StepRecord, error) {
	var out []ports.StepRecord
	for _, s := range r.steps {
		if s.EpisodeID == id && (run == 0 || s.Run == run) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}

func TestUseCase_RunWithoutSteps(t *testing.T) {
	repo := fakeRepo{episode: ports.EpisodeRecord{EpisodeID: "ep-3", Run: 1}}
	uc := UseCase{Episodes: repo, Steps: repo}
	out, err := uc.Execute(context.Background(), Request{EpisodeID: "ep-3"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Steps) != 0 || out.Summary.Outcome != OutcomeRunning {
		t.Fatalf("unexpected response: %+v", out)
	}
}

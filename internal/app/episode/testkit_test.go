package episode

import (
	"context"
	"sort"
	"sync"

	"gridgym/internal/app/ports"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubEpisodeRepo struct {
	mu    sync.Mutex
	items map[string]ports.EpisodeRecord
	// saveErr, when set, is returned by the next SaveWithVersion.
	saveErr error
}

func newStubEpisodeRepo() *stubEpisodeRepo {
	return &stubEpisodeRepo{items: map[string]ports.EpisodeRecord{}}
}

func (r *stubEpisodeRepo) Create(_ context.Context, rec ports.EpisodeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rec.EpisodeID]; ok {
		return ports.ErrConflict
	}
	r.items[rec.EpisodeID] = rec
	return nil
}

func (r *stubEpisodeRepo) Get(_ context.Context, id string) (ports.EpisodeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return ports.EpisodeRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r *stubEpisodeRepo) SaveWithVersion(_ context.Context, rec ports.EpisodeRecord, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		err := r.saveErr
		r.saveErr = nil
		return err
	}
	cur, ok := r.items[rec.EpisodeID]
	if !ok {
		return ports.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.items[rec.EpisodeID] = rec
	return nil
}

type stubStepRepo struct {
	mu    sync.Mutex
	items []ports.StepRecord
}

func (r *stubStepRepo) Append(_ context.Context, steps []ports.StepRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, steps...)
	return nil
}

func (r *stubStepRepo) ListByEpisode(_ context.Context, episodeID string, run int, limit int) ([]ports.StepRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.StepRecord, 0)
	for _, s := range r.items {
		if s.EpisodeID == episodeID && (run == 0 || s.Run == run) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Run != out[j].Run {
			return out[i].Run < out[j].Run
		}
		return out[i].Index < out[j].Index
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}

type stubMetrics struct {
	mu        sync.Mutex
	steps     int
	reward    float64
	ends      map[string]int
	invalid   int
	conflicts int
	failures  int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{ends: map[string]int{}}
}

func (m *stubMetrics) RecordStep(reward float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps++
	m.reward += reward
}

func (m *stubMetrics) RecordEpisodeEnd(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ends[status]++
}

func (m *stubMetrics) RecordInvalidAction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalid++
}

func (m *stubMetrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *stubMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

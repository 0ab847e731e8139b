package inmemory

import (
	"sync"
)

type Snapshot struct {
	StepTotal      uint64            `json:"step_total"`
	RewardTotal    float64           `json:"reward_total"`
	EpisodeEnded   uint64            `json:"episode_ended"`
	InvalidActions uint64            `json:"invalid_actions"`
	Conflicts      uint64            `json:"conflicts"`
	Failures       uint64            `json:"failures"`
	ByStatus       map[string]uint64 `json:"by_status"`
}

type Recorder struct {
	mu       sync.Mutex
	steps    uint64
	reward   float64
	invalid  uint64
	conflict uint64
	failure  uint64
	byStatus map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byStatus: map[string]uint64{},
	}
}

func (r *Recorder) RecordStep(reward float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	r.reward += reward
}

func (r *Recorder) RecordEpisodeEnd(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byStatus[status]++
}

func (r *Recorder) RecordInvalidAction() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StepTotal:      r.steps,
		RewardTotal:    r.reward,
		InvalidActions: r.invalid,
		Conflicts:      r.conflict,
		Failures:       r.failure,
		ByStatus:       make(map[string]uint64, len(r.byStatus)),
	}
	for k, v := range r.byStatus {
		out.ByStatus[k] = v
		out.EpisodeEnded += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

package memory

import (
	"context"
	"sort"

	"gridgym/internal/app/ports"
)

type StepRepo struct {
	store *Store
}

func NewStepRepo(store *Store) StepRepo {
	return StepRepo{store: store}
}

func (r StepRepo) Append(_ context.Context, steps []ports.StepRecord) error {
	for _, s := range steps {
		r.store.steps[s.EpisodeID] = append(r.store.steps[s.EpisodeID], s)
	}
	return nil
}

func (r StepRepo) ListByEpisode(_ context.Context, episodeID string, run int, limit int) ([]ports.StepRecord, error) {
	all := r.store.steps[episodeID]
	out := make([]ports.StepRecord, 0, len(all))
	for _, s := range all {
		if run == 0 || s.Run == run {
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

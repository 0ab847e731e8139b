package memory

import (
	"context"

	"gridgym/internal/app/ports"
)

type EpisodeRepo struct {
	store *Store
}

func NewEpisodeRepo(store *Store) EpisodeRepo {
	return EpisodeRepo{store: store}
}

func (r EpisodeRepo) Create(_ context.Context, rec ports.EpisodeRecord) error {
	if _, ok := r.store.episodes[rec.EpisodeID]; ok {
		return ports.ErrConflict
	}
	r.store.episodes[rec.EpisodeID] = rec
	return nil
}

func (r EpisodeRepo) Get(_ context.Context, episodeID string) (ports.EpisodeRecord, error) {
	rec, ok := r.store.episodes[episodeID]
	if !ok {
		return ports.EpisodeRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r EpisodeRepo) SaveWithVersion(_ context.Context, rec ports.EpisodeRecord, expectedVersion int64) error {
	current, ok := r.store.episodes[rec.EpisodeID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.episodes[rec.EpisodeID] = rec
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.episodes[rec.EpisodeID] = rec
	return nil
}

package memory

import (
	"sync"

	"gridgym/internal/app/ports"
)

// Store backs the in-memory repositories. Repositories do not lock on their
// own; callers go through TxManager.
type Store struct {
	mu       sync.RWMutex
	episodes map[string]ports.EpisodeRecord
	steps    map[string][]ports.StepRecord
}

func NewStore() *Store {
	return &Store{
		episodes: make(map[string]ports.EpisodeRecord),
		steps:    make(map[string][]ports.StepRecord),
	}
}

package episode

import (
	"sync"

	"gridgym/internal/app/ports"
	"gridgym/internal/domain/engine"
)

// Sessions holds the live engines. Each engine is guarded by its own mutex so
// different episodes step in parallel.
type Sessions struct {
	mu    sync.Mutex
	max   int
	items map[string]*session
}

type session struct {
	mu     sync.Mutex
	eng    *engine.Engine
	closed bool
}

// NewSessions keeps at most max live engines; max <= 0 means no limit.
func NewSessions(max int) *Sessions {
	return &Sessions{max: max, items: map[string]*session{}}
}

func (s *Sessions) add(id string, eng *engine.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.items) >= s.max {
		return ErrSessionLimit
	}
	if _, ok := s.items[id]; ok {
		return ports.ErrConflict
	}
	s.items[id] = &session{eng: eng}
	return nil
}

func (s *Sessions) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return sess, nil
}

func (s *Sessions) remove(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	delete(s.items, id)
	return sess, ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

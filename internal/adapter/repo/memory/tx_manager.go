package memory

import (
	"context"
	"maps"
)

// TxManager serialises access to the store. A failed transaction restores the
// store to what it was before fn ran.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	episodes := maps.Clone(t.store.episodes)
	steps := maps.Clone(t.store.steps)
	if err := fn(ctx); err != nil {
		t.store.episodes = episodes
		t.store.steps = steps
		return err
	}
	return nil
}

// Package memory provides an in-memory ports.SnapshotStore, the default
// backend for tests and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/treadle/pkg/ports"
	"github.com/aretw0/treadle/pkg/state"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*state.Snapshot
	mu   sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*state.Snapshot),
	}
}

// Save persists a copy of the snapshot in memory.
func (s *Store) Save(ctx context.Context, id string, snap *state.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copySnapshot(snap)
	return nil
}

// Load retrieves a copy of the snapshot saved under id.
func (s *Store) Load(ctx context.Context, id string) (*state.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[id]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return copySnapshot(snap), nil
}

// Delete removes the snapshot saved under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the ids of every stored snapshot.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// copySnapshot isolates the stored snapshot from the caller's, like
// serialization would.
func copySnapshot(snap *state.Snapshot) *state.Snapshot {
	out := &state.Snapshot{
		Values:   make(map[string]any, len(snap.Values)),
		Switches: make(map[string]state.SwitchState, len(snap.Switches)),
	}
	for k, v := range snap.Values {
		out.Values[k] = v
	}
	for k, v := range snap.Switches {
		out.Switches[k] = v
	}
	return out
}

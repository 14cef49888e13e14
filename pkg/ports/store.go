package ports

import (
	"context"
	"errors"

	"github.com/aretw0/treadle/pkg/state"
)

// ErrSnapshotNotFound is returned by Load when no snapshot exists under
// the given id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists store snapshots between runs.
//
// Implementations must treat Save as an upsert and must return
// ErrSnapshotNotFound (possibly wrapped) from Load for unknown ids.
type SnapshotStore interface {
	// Save persists the snapshot under id, replacing any previous one.
	Save(ctx context.Context, id string, snap *state.Snapshot) error

	// Load retrieves the snapshot saved under id.
	Load(ctx context.Context, id string) (*state.Snapshot, error)

	// Delete removes the snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored snapshot.
	List(ctx context.Context) ([]string, error)
}

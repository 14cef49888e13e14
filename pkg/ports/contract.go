package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/treadle/pkg/state"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// adheres to the interface contract. Adapter test suites call it with a
// fresh store.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")

	sample := func() *state.Snapshot {
		s := state.NewStore()
		s.Set("foo", "bar")
		s.Set("count", 42)
		state.NewSwitch("ready").On(s)
		return s.Export()
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, sample()))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "bar", loaded.Values["foo"])
		// JSON-backed stores may come back with float64 here; presence is
		// what the contract requires.
		assert.NotNil(t, loaded.Values["count"])
		require.Contains(t, loaded.Switches, "ready")
		assert.True(t, loaded.Switches["ready"].On)
		assert.Equal(t, uint64(1), loaded.Switches["ready"].Gen, "switch generations survive persistence")
	})

	t.Run("Save is an upsert", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, sample()))
		snap := sample()
		snap.Values["foo"] = "baz"
		require.NoError(t, store.Save(ctx, id, snap))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "baz", loaded.Values["foo"])
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, sample()))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)

		assert.NoError(t, store.Delete(ctx, id), "deleting a missing id is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, id1, sample()))
		require.NoError(t, store.Save(ctx, id2, sample()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/treadle/pkg/adapters/redis"
	"github.com/aretw0/treadle/pkg/ports"
	"github.com/aretw0/treadle/pkg/state"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, newTestStore(t))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	snap := state.NewStore().Export()
	require.NoError(t, store.Save(context.Background(), "a", snap))
	assert.True(t, mr.Exists("custom:a"))
}

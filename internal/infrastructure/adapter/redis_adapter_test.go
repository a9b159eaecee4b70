package adapter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis, e.g. CONSOLE_TEST_REDIS_ADDR=localhost:6379.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("CONSOLE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CONSOLE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisSnapshotAdapter(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test:" + uuid.NewString() + ":"
	store := NewRedisSnapshotAdapterWithClient(client, prefix, time.Minute)
	defer store.Close()

	ctx := context.Background()
	_, _, found, err := store.Load(ctx, `["hotels",10,0]`)
	require.NoError(t, err)
	assert.False(t, found)

	fetchedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, store.Save(ctx, `["hotels",10,0]`, []byte(`{"results":[]}`), fetchedAt))

	data, at, found, err := store.Load(ctx, `["hotels",10,0]`)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"results":[]}`, string(data))
	assert.True(t, at.Equal(fetchedAt))
}

func TestRedisLockAdapter(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test:" + uuid.NewString() + ":"
	first := NewRedisLockAdapterWithClient(client, prefix)
	second := NewRedisLockAdapterWithClient(client, prefix)

	ctx := context.Background()
	ok, err := first.Acquire(ctx, "edit:hotel-types:7", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.Acquire(ctx, "edit:hotel-types:7", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// Only the holder can release.
	require.NoError(t, second.Release(ctx, "edit:hotel-types:7"))
	ok, _ = second.Acquire(ctx, "edit:hotel-types:7", time.Minute)
	assert.False(t, ok)

	require.NoError(t, first.Release(ctx, "edit:hotel-types:7"))
	ok, err = second.Acquire(ctx, "edit:hotel-types:7", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Release(ctx, "edit:hotel-types:7"))
}

//go:build redis

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pilab-dev/osm-auth/cache"
	redisstore "github.com/pilab-dev/osm-auth/cache/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) *redisstore.StateStore {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redisstore.Connect(ctx, addr, "", 0)
	if err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.NewStateStore(client, "test-"+uuid.NewString())
}

func TestStateStore_PutConsume(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	issued := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Put(ctx, "abc", &cache.StateEntry{RedirectURI: "http://localhost/cb", IssuedAt: issued}, time.Minute))

	entry, err := store.Consume(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/cb", entry.RedirectURI)
	assert.True(t, issued.Equal(entry.IssuedAt))

	_, err = store.Consume(ctx, "abc")
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
}

func TestStateStore_Expiry(t *testing.T) {
	store := setupStateStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "short", &cache.StateEntry{}, 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)

	_, err := store.Consume(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
}

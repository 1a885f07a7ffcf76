package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pilab-dev/osm-auth/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStore_ConsumeOnce(t *testing.T) {
	store := cache.NewMemoryStateStore(time.Minute)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "state-1", &cache.StateEntry{RedirectURI: "http://localhost/cb"}, 0))
	assert.Equal(t, 1, store.Len())

	entry, err := store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/cb", entry.RedirectURI)

	_, err = store.Consume(ctx, "state-1")
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
}

func TestMemoryStateStore_UnknownState(t *testing.T) {
	store := cache.NewMemoryStateStore(time.Minute)
	defer store.Stop()

	_, err := store.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
}

func TestMemoryStateStore_Expiry(t *testing.T) {
	store := cache.NewMemoryStateStore(time.Minute)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "short-lived", &cache.StateEntry{}, 20*time.Millisecond))
	time.Sleep(60 * time.Millisecond)

	_, err := store.Consume(ctx, "short-lived")
	assert.ErrorIs(t, err, cache.ErrStateNotFound)
}

func TestMemoryStateStore_ConcurrentConsume(t *testing.T) {
	store := cache.NewMemoryStateStore(time.Minute)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "contested", &cache.StateEntry{}, 0))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "contested"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

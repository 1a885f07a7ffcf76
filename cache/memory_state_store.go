package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStateStore implements StateStore using ttlcache.
// It is only suitable for a single server instance.
type MemoryStateStore struct {
	cache *ttlcache.Cache[string, *StateEntry]
}

// NewMemoryStateStore creates an in-memory state store. defaultTTL applies when
// Put is called with a non-positive ttl.
func NewMemoryStateStore(defaultTTL time.Duration) *MemoryStateStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *StateEntry](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, *StateEntry](),
	)

	// Evict expired states in the background.
	go cache.Start()

	return &MemoryStateStore{cache: cache}
}

// Put implements StateStore.Put.
func (s *MemoryStateStore) Put(_ context.Context, state string, entry *StateEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.cache.Set(state, entry, ttl)
	return nil
}

// Consume implements StateStore.Consume.
func (s *MemoryStateStore) Consume(_ context.Context, state string) (*StateEntry, error) {
	item, found := s.cache.GetAndDelete(state)
	if !found || item == nil {
		return nil, ErrStateNotFound
	}
	return item.Value(), nil
}

// Len returns the number of states waiting to be consumed.
func (s *MemoryStateStore) Len() int {
	return s.cache.Len()
}

// Stop halts the background eviction loop.
func (s *MemoryStateStore) Stop() {
	s.cache.Stop()
}

var _ StateStore = (*MemoryStateStore)(nil)

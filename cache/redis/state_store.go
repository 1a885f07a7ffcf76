package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pilab-dev/osm-auth/cache"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces state keys shared by the server and authctl.
const DefaultPrefix = "osm-auth"

// StateStore implements cache.StateStore on Redis so that states issued by
// one instance can be consumed by another.
type StateStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStateStore creates a new [StateStore].
func NewStateStore(client redis.UniversalClient, prefix string) *StateStore {
	return &StateStore{
		client: client,
		prefix: prefix,
	}
}

func (s *StateStore) redisKey(state string) string {
	return fmt.Sprintf("%s:oauth_state:%s", s.prefix, state)
}

// Put stores the entry with a Redis expiry of ttl.
func (s *StateStore) Put(ctx context.Context, state string, entry *cache.StateEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal state entry: %w", err)
	}

	if err := s.client.Set(ctx, s.redisKey(state), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in Redis: %w", err)
	}

	return nil
}

// Consume atomically reads and deletes the state with GETDEL.
func (s *StateStore) Consume(ctx context.Context, state string) (*cache.StateEntry, error) {
	payload, err := s.client.GetDel(ctx, s.redisKey(state)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to consume state from Redis: %w", err)
	}

	var entry cache.StateEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state entry: %w", err)
	}

	return &entry, nil
}

// Connect parses a redis URL or host:port address and pings the server.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", opts.Addr, err)
	}

	return client, nil
}

var _ cache.StateStore = (*StateStore)(nil)

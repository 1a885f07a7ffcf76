package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStateNotFound is returned when a state was never issued, has expired or
// was already consumed.
var ErrStateNotFound = errors.New("oauth state not found")

// StateEntry is what we remember about an issued OAuth2 state.
type StateEntry struct {
	RedirectURI string    `json:"redirect_uri,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

// StateStore keeps issued OAuth2 state values until they are consumed or expire.
// A state can be consumed only once.
type StateStore interface {
	Put(ctx context.Context, state string, entry *StateEntry, ttl time.Duration) error
	Consume(ctx context.Context, state string) (*StateEntry, error)
}

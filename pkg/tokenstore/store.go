package tokenstore

import (
	"context"
	"fmt"
	"time"
)

// Store keeps the currently-live refresh token per user email. Entries are
// upserted with a TTL on every refresh-token mint, deleted on signout, and
// expired by the backing store itself; there is no client-side eviction.
type Store interface {
	// Put upserts the value under key, replacing any existing entry and its TTL.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the stored value, or ErrValueNotFound if the key was never
	// set, was deleted, or has expired.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrValueNotFound is returned when no value exists for the requested key.
type ErrValueNotFound struct {
	Key string
}

func (e ErrValueNotFound) Error() string {
	return fmt.Sprintf("no value found for key: %s", e.Key)
}

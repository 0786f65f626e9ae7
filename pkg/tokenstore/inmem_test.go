package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemStorePutGet(t *testing.T) {
	store := NewInMemStore()
	ctx := context.Background()

	err := store.Put(ctx, "user@example.com", "token-1", time.Minute)
	assert.NoError(t, err)

	value, err := store.Get(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "token-1", value)
}

func TestInMemStorePutOverwrites(t *testing.T) {
	store := NewInMemStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, "user@example.com", "token-1", time.Minute))
	assert.NoError(t, store.Put(ctx, "user@example.com", "token-2", time.Minute))

	value, err := store.Get(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "token-2", value, "latest put should win")
}

func TestInMemStoreGetMissing(t *testing.T) {
	store := NewInMemStore()

	_, err := store.Get(context.Background(), "nobody@example.com")
	assert.ErrorAs(t, err, &ErrValueNotFound{})
}

func TestInMemStoreDelete(t *testing.T) {
	store := NewInMemStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, "user@example.com", "token-1", time.Minute))
	assert.NoError(t, store.Delete(ctx, "user@example.com"))

	_, err := store.Get(ctx, "user@example.com")
	assert.ErrorAs(t, err, &ErrValueNotFound{})

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, "user@example.com"))
}

func TestInMemStoreTTLExpiry(t *testing.T) {
	store := NewInMemStore()
	ctx := context.Background()

	now := time.Now()
	store.SetNowFunc(func() time.Time { return now })

	assert.NoError(t, store.Put(ctx, "user@example.com", "token-1", time.Minute))

	store.SetNowFunc(func() time.Time { return now.Add(2 * time.Minute) })

	_, err := store.Get(ctx, "user@example.com")
	assert.ErrorAs(t, err, &ErrValueNotFound{}, "entry past its TTL should be gone")
}

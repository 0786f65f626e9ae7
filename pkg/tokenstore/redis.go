package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the production Store implementation. Mutations are
// last-write-wins on the Redis side, so no client-side locking is needed:
// a concurrent login race simply means the most recent login's refresh
// token is the one honored.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore using an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromAddr connects to Redis and verifies the connection.
func NewRedisStoreFromAddr(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		slog.Error("Failed to set value in redis", "key", key, "err", err)
		return err
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrValueNotFound{Key: key}
	}
	if err != nil {
		slog.Error("Failed to get value from redis", "key", key, "err", err)
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, key).Err()
	if err != nil {
		slog.Error("Failed to delete value from redis", "key", key, "err", err)
		return err
	}
	return nil
}

// Close releases the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "portald:session:"

// RedisBackend keeps each scope in a Redis hash
type RedisBackend struct {
	client  redis.Cmdable
	closer  func() error
	timeout time.Duration
}

// NewRedisBackend connects to the Redis server at addr and pings it
func NewRedisBackend(ctx context.Context, addr string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	backend := NewRedisBackendFromClient(client)
	backend.closer = client.Close
	return backend, nil
}

// NewRedisBackendFromClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisBackendFromClient(client redis.Cmdable) *RedisBackend {
	return &RedisBackend{
		client:  client,
		closer:  func() error { return nil },
		timeout: 3 * time.Second,
	}
}

func (b *RedisBackend) Scope(scopeID string) Store {
	return &redisStore{backend: b, key: redisKeyPrefix + scopeID}
}

func (b *RedisBackend) Close() error {
	return b.closer()
}

type redisStore struct {
	backend *RedisBackend
	key     string
}

func (s *redisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.backend.timeout)
}

func (s *redisStore) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	value, err := s.backend.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session field: %w", err)
	}
	return value, true, nil
}

func (s *redisStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.backend.client.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("failed to write session field: %w", err)
	}
	return nil
}

func (s *redisStore) Clear() error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.backend.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

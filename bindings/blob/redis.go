package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis keyspace.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix for stored objects.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiration on stored objects. Zero means no
// expiration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedis creates a Redis-backed store from an existing client.
func NewRedis(client *backend.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "rewind:objects:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("blob: empty key")
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("blob: redis set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blob: redis get %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("blob: redis del %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	match := s.key(prefix) + "*"

	var keys []string
	iter := s.client.Scan(ctx, 0, match, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("blob: redis scan %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

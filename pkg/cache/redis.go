package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis. Values are serialized with the
// configured Marshaler (JSON by default), so reads return fresh copies.
type Redis[V any] struct {
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	prefix     string
	defaultTTL time.Duration
	maxTTL     time.Duration
}

// RedisOption configures the Redis cache.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix     string
	defaultTTL time.Duration
	maxTTL     time.Duration
}

// WithPrefix stores keys as "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) {
		c.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the expiration used when Set is called with a
// zero TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.defaultTTL = d
	}
}

// WithRedisMaxTTL caps the expiration of every key, including values stored
// with a negative (no expiry) TTL. Zero disables the cap.
func WithRedisMaxTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.maxTTL = d
	}
}

// NewRedis creates a Redis-backed cache. A nil Marshaler selects JSON.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := &redisConfig{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(cfg)
	}
	if m == nil {
		m = JSONMarshaler[V]{}
	}
	return &Redis[V]{
		client:     client,
		marshaler:  m,
		prefix:     cfg.prefix,
		defaultTTL: cfg.defaultTTL,
		maxTTL:     cfg.maxTTL,
	}
}

// Get retrieves a value by key. Returns ErrNotFound if the key does not exist.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

// Set stores a value. A negative TTL maps to no expiration in Redis unless
// a max TTL is configured.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, r.expiration(ttl)).Err()
}

// expiration maps a Cache TTL to a Redis expiration, where 0 means none.
func (r *Redis[V]) expiration(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	if r.maxTTL > 0 && (ttl < 0 || ttl > r.maxTTL) {
		return r.maxTTL
	}
	return max(ttl, 0)
}

// Delete removes a key from Redis.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close is a no-op; the client lifecycle belongs to the caller.
func (r *Redis[V]) Close() error {
	return nil
}

func (r *Redis[V]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Cache[any] = (*Redis[any])(nil)

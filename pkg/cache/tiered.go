package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered layers a process-local cache in front of a shared one. Reads are
// served from local when possible; remote hits are copied into local, so
// later reads of the key return the same value without remote I/O.
type Tiered[V any] struct {
	local  Cache[V]
	remote Cache[V]
}

// NewTiered creates a two-level cache. Both levels are owned by the result
// and closed with it.
func NewTiered[V any](local, remote Cache[V]) *Tiered[V] {
	return &Tiered[V]{local: local, remote: remote}
}

// Get checks local, then remote.
func (t *Tiered[V]) Get(ctx context.Context, key string) (V, error) {
	if v, err := t.local.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err := t.remote.Get(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	_ = t.local.Set(ctx, key, v, 0)
	return v, nil
}

// Set stores value in both levels. The local write always happens; a remote
// failure is returned.
func (t *Tiered[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if err := t.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return t.remote.Set(ctx, key, value, ttl)
}

// Delete removes key from both levels.
func (t *Tiered[V]) Delete(ctx context.Context, key string) error {
	return errors.Join(t.local.Delete(ctx, key), t.remote.Delete(ctx, key))
}

// Close closes both levels.
func (t *Tiered[V]) Close() error {
	return errors.Join(t.local.Close(), t.remote.Close())
}

var _ Cache[any] = (*Tiered[any])(nil)

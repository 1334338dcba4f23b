package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/granddom/site/pkg/cache"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("returns the stored pointer", func(t *testing.T) {
		t.Parallel()
		type doc struct{ title string }
		c := cache.NewMemory[*doc](cache.WithCleanupInterval(0))
		defer c.Close()

		d := &doc{title: "GrandDom"}
		require.NoError(t, c.Set(ctx, "pl-common", d, -1))

		got, err := c.Get(ctx, "pl-common")
		require.NoError(t, err)
		require.Same(t, d, got)
	})

	t.Run("expired entry is not found", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithDefaultTTL(time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, 0))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative default keeps entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithDefaultTTL(-1))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, 0))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})

	t.Run("max entries rejects new keys", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithMaxEntries(1))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, -1))
		require.ErrorIs(t, c.Set(ctx, "b", 2, -1), cache.ErrFull)
		require.NoError(t, c.Set(ctx, "a", 3, -1))
		require.Equal(t, 1, c.Len())
	})

	t.Run("delete removes key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, -1))
		require.NoError(t, c.Delete(ctx, "a"))
		_, err := c.Get(ctx, "a")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		require.NoError(t, c.Set(ctx, "a", 1, -1))
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		require.ErrorIs(t, c.Set(ctx, "b", 1, -1), cache.ErrClosed)
		require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)

		v, err := c.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})

	t.Run("janitor removes expired entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestLoader_GetOrLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads on miss and caches", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()
		l := cache.NewLoader[string](c)

		var calls atomic.Int32
		fn := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "v", -1, nil
		}

		v, err := l.GetOrLoad(ctx, "k", fn)
		require.NoError(t, err)
		require.Equal(t, "v", v)

		v, err = l.GetOrLoad(ctx, "k", fn)
		require.NoError(t, err)
		require.Equal(t, "v", v)
		require.Equal(t, int32(1), calls.Load())
		require.Same(t, cache.Cache[string](c), l.Cache())
	})

	t.Run("errors are returned and not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()
		l := cache.NewLoader[string](c)

		boom := errors.New("boom")
		var calls atomic.Int32
		fn := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "", 0, boom
		}

		_, err := l.GetOrLoad(ctx, "k", fn)
		require.ErrorIs(t, err, boom)
		_, err = l.GetOrLoad(ctx, "k", fn)
		require.ErrorIs(t, err, boom)
		require.Equal(t, int32(2), calls.Load())
		require.Zero(t, c.Len())
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()
		l := cache.NewLoader[int](c)

		var calls atomic.Int32
		fn := func(context.Context) (int, time.Duration, error) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			return 42, -1, nil
		}

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.GetOrLoad(ctx, "k", fn)
				require.NoError(t, err)
				require.Equal(t, 42, v)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), calls.Load())
	})
}

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	type item struct {
		Title string `json:"title"`
	}
	m := cache.JSONMarshaler[item]{}

	data, err := m.Marshal(item{Title: "GrandDom"})
	require.NoError(t, err)

	got, err := m.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, "GrandDom", got.Title)

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	_, err = cache.JSONMarshaler[func()]{}.Marshal(func() {})
	require.ErrorIs(t, err, cache.ErrMarshal)
}

type countingCache[V any] struct {
	cache.Cache[V]
	gets   atomic.Int32
	closed atomic.Bool
}

func (c *countingCache[V]) Get(ctx context.Context, key string) (V, error) {
	c.gets.Add(1)
	return c.Cache.Get(ctx, key)
}

func (c *countingCache[V]) Close() error {
	c.closed.Store(true)
	return c.Cache.Close()
}

func TestTiered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	type doc struct{ title string }

	newTiered := func() (*cache.Tiered[*doc], *cache.Memory[*doc], *countingCache[*doc]) {
		local := cache.NewMemory[*doc](cache.WithDefaultTTL(-1), cache.WithCleanupInterval(0))
		remote := &countingCache[*doc]{Cache: cache.NewMemory[*doc](cache.WithCleanupInterval(0))}
		return cache.NewTiered[*doc](local, remote), local, remote
	}

	t.Run("remote hit is kept locally", func(t *testing.T) {
		t.Parallel()
		c, local, remote := newTiered()
		defer c.Close()

		d := &doc{title: "GrandDom"}
		require.NoError(t, remote.Set(ctx, "pl-common", d, -1))

		first, err := c.Get(ctx, "pl-common")
		require.NoError(t, err)
		require.Same(t, d, first)
		require.Equal(t, 1, local.Len())

		second, err := c.Get(ctx, "pl-common")
		require.NoError(t, err)
		require.Same(t, first, second)
		require.Equal(t, int32(1), remote.gets.Load())
	})

	t.Run("miss in both levels", func(t *testing.T) {
		t.Parallel()
		c, _, _ := newTiered()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set writes both levels", func(t *testing.T) {
		t.Parallel()
		c, local, remote := newTiered()
		defer c.Close()

		d := &doc{title: "Kontakt"}
		require.NoError(t, c.Set(ctx, "pl-contact", d, -1))

		got, err := local.Get(ctx, "pl-contact")
		require.NoError(t, err)
		require.Same(t, d, got)
		got, err = remote.Get(ctx, "pl-contact")
		require.NoError(t, err)
		require.Same(t, d, got)

		got, err = c.Get(ctx, "pl-contact")
		require.NoError(t, err)
		require.Same(t, d, got)
		require.Equal(t, int32(1), remote.gets.Load(), "only the direct remote read")
	})

	t.Run("delete removes from both levels", func(t *testing.T) {
		t.Parallel()
		c, local, remote := newTiered()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", &doc{}, -1))
		require.NoError(t, c.Delete(ctx, "k"))

		_, err := local.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		_, err = remote.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("close closes both levels", func(t *testing.T) {
		t.Parallel()
		c, local, remote := newTiered()

		require.NoError(t, c.Close())
		require.True(t, remote.closed.Load())
		require.Error(t, local.Set(ctx, "k", &doc{}, -1))
	})
}

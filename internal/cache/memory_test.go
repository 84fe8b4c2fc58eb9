package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
)

func newTestMemoryCache(t *testing.T, maxEntries int, ttl time.Duration) Cache {
	t.Helper()

	c := NewMemory(&config.CacheConfig{
		Enabled:    true,
		Type:       config.CacheTypeMemory,
		TTL:        config.Duration(ttl),
		MaxEntries: maxEntries,
	}, observability.NopLogger())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))

	got, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), got)
}

func TestMemoryCache_Get_Miss(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Get_Expired(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, err := c.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCache_Set_Update(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), 0))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "never-set"))

	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "soon", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "later", []byte("2"), time.Hour))
	require.NoError(t, c.Set(ctx, "new", []byte("3"), time.Hour))

	_, err := c.Get(ctx, "soon")
	assert.ErrorIs(t, err, ErrCacheMiss, "entry closest to expiry is evicted")

	for _, k := range []string{"later", "new"} {
		_, err := c.Get(ctx, k)
		assert.NoError(t, err, k)
	}
}

func TestMemoryCache_UpdateDoesNotEvict(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "a", []byte("3"), 0))

	for _, k := range []string{"a", "b"} {
		_, err := c.Get(ctx, k)
		assert.NoError(t, err, k)
	}
}

func TestMemoryCache_DefaultsApplied(t *testing.T) {
	t.Parallel()

	c := NewMemory(&config.CacheConfig{Enabled: true}, nil)
	defer c.Close()

	mc, ok := c.(*memoryCache)
	require.True(t, ok)
	assert.Equal(t, defaultMemoryTTL, mc.defaultTTL)
	assert.Equal(t, defaultMemoryEntries, mc.maxEntries)
}

func TestMemoryCache_Close(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Close())

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, 16, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j%4)
				_ = c.Set(ctx, key, []byte("v"), 0)
				_, _ = c.Get(ctx, key)
				_, _ = c.Exists(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

package routing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fem/sPof-sub000/internal/cache"
	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/router"
)

func newMemoryCache(t *testing.T) cache.Cache {
	t.Helper()

	c := cache.NewMemory(&config.CacheConfig{Enabled: true, Type: config.CacheTypeMemory}, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testSnapshot(t *testing.T) *router.Snapshot {
	t.Helper()

	reg, err := router.NewRegistry([]router.Definition{
		{Name: "event_show", Pattern: "/event/<id>", Static: router.Params{{Key: "module", Value: "Event"}}},
	})
	require.NoError(t, err)
	table, err := router.NewTable(reg)
	require.NoError(t, err)
	return table.Snapshot()
}

func TestTableStore_SetGet(t *testing.T) {
	t.Parallel()

	store := NewTableStore(newMemoryCache(t), time.Minute, nil)
	ctx := context.Background()
	snap := testSnapshot(t)

	require.NoError(t, store.Set(ctx, "k", "1-10", snap))

	got, err := store.Get(ctx, "k", "1-10")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestTableStore_StaleToken(t *testing.T) {
	t.Parallel()

	store := NewTableStore(newMemoryCache(t), time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "1-10", testSnapshot(t)))

	_, err := store.Get(ctx, "k", "2-10")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestTableStore_Miss(t *testing.T) {
	t.Parallel()

	store := NewTableStore(newMemoryCache(t), 0, nil)

	_, err := store.Get(context.Background(), "absent", "1-1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestTableStore_CorruptEntry(t *testing.T) {
	t.Parallel()

	c := newMemoryCache(t)
	store := NewTableStore(c, 0, nil)
	ctx := context.Background()

	for _, payload := range []string{"not json", `{"token":"1-1"}`} {
		require.NoError(t, c.Set(ctx, "k", []byte(payload), 0))

		_, err := store.Get(ctx, "k", "1-1")
		assert.ErrorIs(t, err, cache.ErrCacheMiss, payload)

		exists, err := c.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists, "corrupt entry %q is deleted", payload)
	}
}

func TestTableStore_DisabledCache(t *testing.T) {
	t.Parallel()

	store := NewTableStore(cache.NewDisabled(), 0, nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Set(ctx, "k", "1-1", testSnapshot(t)), cache.ErrCacheDisabled)

	_, err := store.Get(ctx, "k", "1-1")
	assert.ErrorIs(t, err, cache.ErrCacheDisabled)
}

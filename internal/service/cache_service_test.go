package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{ *memoryCache }

func (b *brokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis: connection refused")
}

func TestCachedLoadsOnceThenServesFromCache(t *testing.T) {
	store := newMemoryCache()
	cache := NewCacheService(store, "sections:", time.Minute, nil, nil)
	loads := 0
	load := func(ctx context.Context) ([]string, error) {
		loads++
		return []string{"sec-mon-A"}, nil
	}

	got, err := Cached(context.Background(), cache, cache.Key("FALL_2025"), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"sec-mon-A"}, got)

	got, err = Cached(context.Background(), cache, cache.Key("FALL_2025"), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"sec-mon-A"}, got)
	assert.Equal(t, 1, loads)
	assert.Contains(t, store.entries, "sections:FALL_2025")
}

func TestCachedDoesNotStoreLoadErrors(t *testing.T) {
	store := newMemoryCache()
	cache := NewCacheService(store, "sections", time.Minute, nil, nil)

	_, err := Cached(context.Background(), cache, cache.Key("FALL_2025"), func(ctx context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	require.Error(t, err)
	assert.Empty(t, store.entries)
}

func TestCachedFallsThroughWhenCacheFails(t *testing.T) {
	cache := NewCacheService(&brokenCache{memoryCache: newMemoryCache()}, "sections", time.Minute, nil, nil)

	got, err := Cached(context.Background(), cache, cache.Key("FALL_2025"), func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestNilCacheAlwaysLoads(t *testing.T) {
	var cache *CacheService
	assert.Equal(t, "FALL_2025", cache.Key("FALL_2025"))
	assert.NoError(t, cache.Purge(context.Background()))

	got, err := Cached(context.Background(), cache, cache.Key("FALL_2025"), func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestPurgeOnlyDropsOwnNamespace(t *testing.T) {
	store := newMemoryCache()
	sections := NewCacheService(store, "sections", time.Minute, nil, nil)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "sections:FALL_2025", 1, time.Minute))
	require.NoError(t, store.Set(ctx, "sections:SPRING_2026", 2, time.Minute))
	require.NoError(t, store.Set(ctx, "other:FALL_2025", 3, time.Minute))

	require.NoError(t, sections.Purge(ctx))
	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "other:FALL_2025")
}

func TestCachedDiscardsLoadOverlappingPurge(t *testing.T) {
	store := newMemoryCache()
	cache := NewCacheService(store, "sections", time.Minute, nil, nil)
	ctx := context.Background()
	seats := 1
	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		snapshot := seats
		if loads == 1 {
			// A registration commits and invalidates while this read is in flight.
			seats = 0
			require.NoError(t, cache.Purge(ctx))
		}
		return snapshot, nil
	}

	got, err := Cached(ctx, cache, cache.Key("FALL_2025"), load)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Cached(ctx, cache, cache.Key("FALL_2025"), load)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "snapshot taken before the purge is not served")
	assert.Equal(t, 2, loads)

	got, err = Cached(ctx, cache, cache.Key("FALL_2025"), load)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.Equal(t, 2, loads)
	assert.Contains(t, store.entries, "sections:FALL_2025@1")
}

func TestPurgeKeepsGenerationCounter(t *testing.T) {
	store := newMemoryCache()
	cache := NewCacheService(store, "sections", time.Minute, nil, nil)
	ctx := context.Background()

	require.NoError(t, cache.Purge(ctx))
	require.NoError(t, cache.Purge(ctx))
	assert.Equal(t, int64(2), store.counters["sections.gen"])
}

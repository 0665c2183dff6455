package external

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherlog.app/pkg/errors"
)

func TestMemoryCacheProvider_SetGet(t *testing.T) {
	cache := NewMemoryCacheProvider()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	value, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	_, err = cache.Get(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err))

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.001)
}

func TestMemoryCacheProvider_Expiry(t *testing.T) {
	cache := NewMemoryCacheProvider()
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := cache.Get(ctx, "k")

	assert.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, 0, cache.Len(), "expired entry is evicted on read")
}

func TestMemoryCacheProvider_Validation(t *testing.T) {
	cache := NewMemoryCacheProvider()
	ctx := context.Background()

	assert.True(t, errors.IsValidationError(cache.Set(ctx, "", []byte("v"), time.Minute)))
	assert.True(t, errors.IsValidationError(cache.Set(ctx, "k", nil, time.Minute)))
	assert.True(t, errors.IsValidationError(cache.Set(ctx, "k", []byte("v"), 0)))
	_, err := cache.Get(ctx, "")
	assert.True(t, errors.IsValidationError(err))
}

func TestMemoryCacheProvider_DeleteAndClear(t *testing.T) {
	cache := NewMemoryCacheProvider()
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCacheProvider_DeleteExpired(t *testing.T) {
	cache := NewMemoryCacheProviderWithSweep(0)
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("geocode:q%d:5", i), []byte("[]"), time.Minute))
	}
	require.NoError(t, cache.Set(ctx, "fresh", []byte("v"), 48*time.Hour))

	now = now.Add(24 * time.Hour)

	assert.Equal(t, 1000, cache.DeleteExpired())
	assert.Equal(t, 1, cache.Len())
	value, err := cache.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryCacheProvider_JanitorSweeps(t *testing.T) {
	cache := NewMemoryCacheProviderWithSweep(10 * time.Millisecond)
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("v"), time.Millisecond))

	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryCacheProvider_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCacheProvider()

	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Minute))
}

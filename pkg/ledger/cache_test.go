package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/pkg/ledger"
)

func liveEntry(data string) *ledger.CacheEntry {
	return &ledger.CacheEntry{Data: []byte(data), ExpiresAt: time.Now().Add(time.Minute)}
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := ledger.NewMemoryCache(10)

	_, err := cache.Get(ctx, "missing")
	require.ErrorIs(t, err, ledger.ErrCacheKeyNotFound)

	require.NoError(t, cache.Set(ctx, "k1", liveEntry("v1")))

	entry, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), entry.Data)
	assert.True(t, cache.Has(ctx, "k1"))

	require.NoError(t, cache.Delete(ctx, "k1"))
	assert.False(t, cache.Has(ctx, "k1"))

	require.NoError(t, cache.Set(ctx, "k2", liveEntry("v2")))
	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "k2"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := ledger.NewMemoryCache(10)

	expired := &ledger.CacheEntry{Data: []byte("old"), ExpiresAt: time.Now().Add(-time.Second)}
	require.NoError(t, cache.Set(ctx, "k1", expired))

	_, err := cache.Get(ctx, "k1")
	require.ErrorIs(t, err, ledger.ErrCacheEntryExpired)

	// The expired entry is dropped on read.
	_, err = cache.Get(ctx, "k1")
	require.ErrorIs(t, err, ledger.ErrCacheKeyNotFound)
}

func TestMemoryCache_EvictsAtCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := ledger.NewMemoryCache(2)

	require.NoError(t, cache.Set(ctx, "k1", liveEntry("v1")))
	require.NoError(t, cache.Set(ctx, "k2", liveEntry("v2")))
	require.NoError(t, cache.Set(ctx, "k3", liveEntry("v3")))

	// One of the earlier entries made room for the new one.
	assert.True(t, cache.Has(ctx, "k3"))

	kept := 0
	for _, key := range []string{"k1", "k2"} {
		if cache.Has(ctx, key) {
			kept++
		}
	}

	assert.Equal(t, 1, kept)
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := ledger.NewNoOpCache()

	require.NoError(t, cache.Set(ctx, "k1", liveEntry("v1")))

	_, err := cache.Get(ctx, "k1")
	require.ErrorIs(t, err, ledger.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "k1"))
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := ledger.NewMemoryCache(10)
	l2 := ledger.NewMemoryCache(10)
	chain := ledger.NewCacheChain(l1, l2)

	_, err := chain.Get(ctx, "k1")
	require.ErrorIs(t, err, ledger.ErrKeyNotFoundInAnyCache)

	// A set reaches every layer.
	require.NoError(t, chain.Set(ctx, "k1", liveEntry("v1")))
	assert.True(t, l1.Has(ctx, "k1"))
	assert.True(t, l2.Has(ctx, "k1"))

	// A hit in a later layer backfills the earlier one.
	require.NoError(t, l1.Delete(ctx, "k1"))

	entry, err := chain.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), entry.Data)
	assert.True(t, l1.Has(ctx, "k1"))

	require.NoError(t, chain.Delete(ctx, "k1"))
	assert.False(t, chain.Has(ctx, "k1"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	cache, err := ledger.NewCacheFromConfig(&ledger.CacheConfig{Type: ledger.CacheTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &ledger.MemoryCache{}, cache)

	cache, err = ledger.NewCacheFromConfig(&ledger.CacheConfig{Type: ledger.CacheTypeNone})
	require.NoError(t, err)
	assert.IsType(t, &ledger.NoOpCache{}, cache)

	cache, err = ledger.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &ledger.MemoryCache{}, cache)

	_, err = ledger.NewCacheFromConfig(&ledger.CacheConfig{Type: ledger.CacheTypeNATS})
	require.ErrorIs(t, err, ledger.ErrNATSConfigRequired)

	_, err = ledger.NewCacheFromConfig(&ledger.CacheConfig{Type: "redis"})
	require.ErrorIs(t, err, ledger.ErrUnsupportedCacheType)
}

func TestCacheConfig_EntryTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Minute, (&ledger.CacheConfig{TTL: time.Minute}).EntryTTL())
	assert.Equal(t, 5*time.Minute, (&ledger.CacheConfig{}).EntryTTL())

	var nilConfig *ledger.CacheConfig

	assert.Equal(t, 5*time.Minute, nilConfig.EntryTTL())
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrocraft-network/stats-api/internal/resilience"
)

// flakyCache fails every call until healed.
type flakyCache struct {
	*MemoryRankCache
	down bool
}

func (c *flakyCache) Add(ctx context.Context, key string, score uint32, member string) error {
	if c.down {
		return errors.New("i/o timeout")
	}
	return c.MemoryRankCache.Add(ctx, key, score, member)
}

func TestBreakerRankCacheFailsFastWhenOpen(t *testing.T) {
	inner := &flakyCache{MemoryRankCache: NewMemoryRankCache(), down: true}
	cache := NewBreakerRankCache(inner, resilience.NewBreaker("rank-cache", resilience.Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	}))
	ctx := context.Background()

	require.Error(t, cache.Add(ctx, "k", 1, "m"))
	require.Error(t, cache.Add(ctx, "k", 1, "m"))

	// Healed backend, but the breaker is still open.
	inner.down = false
	var open *resilience.ErrOpen
	err := cache.Add(ctx, "k", 1, "m")
	assert.ErrorAs(t, err, &open)
}

func TestBreakerRankCachePassesThroughWhenClosed(t *testing.T) {
	inner := &flakyCache{MemoryRankCache: NewMemoryRankCache()}
	cache := NewBreakerRankCache(inner, resilience.NewBreaker("rank-cache", resilience.Config{}))
	ctx := context.Background()

	require.NoError(t, cache.Add(ctx, "k", 7, "p1"))
	score, ok, err := cache.Score(ctx, "k", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(7), score)

	exists, err := cache.HasKey(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

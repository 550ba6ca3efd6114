package store

import (
	"context"

	"github.com/astrocraft-network/stats-api/internal/resilience"
)

// BreakerRankCache wraps a RankCache with a circuit breaker, so an
// unreachable cache fails fast instead of holding every request for the
// full dial timeout. Rejected calls surface as errors, which the engine
// already treats as a degraded cache.
type BreakerRankCache struct {
	inner   RankCache
	breaker *resilience.Breaker
}

func NewBreakerRankCache(inner RankCache, breaker *resilience.Breaker) *BreakerRankCache {
	return &BreakerRankCache{inner: inner, breaker: breaker}
}

func (c *BreakerRankCache) Add(ctx context.Context, key string, score uint32, member string) error {
	return c.breaker.Call(func() error {
		return c.inner.Add(ctx, key, score, member)
	})
}

func (c *BreakerRankCache) Score(ctx context.Context, key, member string) (uint32, bool, error) {
	var score uint32
	var ok bool
	err := c.breaker.Call(func() error {
		var err error
		score, ok, err = c.inner.Score(ctx, key, member)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return score, ok, nil
}

func (c *BreakerRankCache) TopWithScores(ctx context.Context, key string, limit int64) ([]MemberScore, error) {
	var rows []MemberScore
	err := c.breaker.Call(func() error {
		var err error
		rows, err = c.inner.TopWithScores(ctx, key, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *BreakerRankCache) DeleteKey(ctx context.Context, key string) (bool, error) {
	var existed bool
	err := c.breaker.Call(func() error {
		var err error
		existed, err = c.inner.DeleteKey(ctx, key)
		return err
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

func (c *BreakerRankCache) HasKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := c.breaker.Call(func() error {
		var err error
		exists, err = c.inner.HasKey(ctx, key)
		return err
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

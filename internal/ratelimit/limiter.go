// Package ratelimit throttles the HTTP read surface per client IP, using a
// Redis sliding window when Redis is up and an in-memory token bucket when it
// is not.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Config holds rate limiter settings.
type Config struct {
	RequestsPerMin int
	BurstFactor    int
}

// DefaultConfig allows a generous read rate; leaderboard fetches are cheap
// once the view is warm.
func DefaultConfig() Config {
	return Config{
		RequestsPerMin: 120,
		BurstFactor:    2,
	}
}

// Result is the outcome of one limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a per-key request limiter. With a Redis client it enforces the
// limit across replicas; without one it degrades to per-process token
// buckets.
type Limiter struct {
	cfg          Config
	redisLimiter *redis_rate.Limiter

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// NewLimiter builds a limiter. client may be nil, forcing the in-memory
// fallback from the start.
func NewLimiter(client *redis.Client, cfg Config) *Limiter {
	l := &Limiter{
		cfg:      cfg,
		fallback: make(map[string]*rate.Limiter),
	}
	if client != nil {
		l.redisLimiter = redis_rate.NewLimiter(client)
	} else {
		slog.Warn("Redis unavailable, rate limiting is per-process only")
	}
	return l
}

// AllowIP checks one request against the per-minute IP limit.
func (l *Limiter) AllowIP(ctx context.Context, ip string) Result {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)

	if l.redisLimiter != nil {
		res, err := l.redisLimiter.Allow(ctx, key, redis_rate.Limit{
			Rate:   l.cfg.RequestsPerMin,
			Burst:  l.cfg.RequestsPerMin * l.cfg.BurstFactor,
			Period: time.Minute,
		})
		if err != nil {
			slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		} else {
			return Result{
				Allowed:    res.Allowed > 0,
				Limit:      l.cfg.RequestsPerMin,
				Remaining:  res.Remaining,
				RetryAfter: res.RetryAfter,
			}
		}
	}
	return l.allowFallback(key)
}

func (l *Limiter) allowFallback(key string) Result {
	l.mu.Lock()
	limiter, ok := l.fallback[key]
	if !ok {
		limiter = rate.NewLimiter(
			rate.Limit(float64(l.cfg.RequestsPerMin)/60.0),
			l.cfg.RequestsPerMin*l.cfg.BurstFactor,
		)
		l.fallback[key] = limiter
	}
	// Unbounded key growth is capped the blunt way.
	if len(l.fallback) > 10_000 {
		l.fallback = map[string]*rate.Limiter{key: limiter}
	}
	l.mu.Unlock()

	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	result := Result{
		Allowed:   allowed,
		Limit:     l.cfg.RequestsPerMin,
		Remaining: remaining,
	}
	if !allowed {
		result.RetryAfter = time.Minute
	}
	return result
}

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client with connection pooling and verifies
// it with a ping. Callers fall back to the in-memory cache when this fails.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	slog.Info("Initializing Redis client", "addr", addr, "db", db)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	slog.Info("Redis client connected successfully", "addr", addr)
	return client, nil
}

// RedisRankCache is the production RankCache backed by Redis sorted sets.
type RedisRankCache struct {
	client *redis.Client
}

// NewRedisRankCache wraps an established Redis client.
func NewRedisRankCache(client *redis.Client) *RedisRankCache {
	return &RedisRankCache{client: client}
}

func (c *RedisRankCache) Add(ctx context.Context, key string, score uint32, member string) error {
	return c.client.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: member}).Err()
}

func (c *RedisRankCache) Score(ctx context.Context, key, member string) (uint32, bool, error) {
	score, err := c.client.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint32(score), true, nil
}

func (c *RedisRankCache) TopWithScores(ctx context.Context, key string, limit int64) ([]MemberScore, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := c.client.ZRevRangeWithScores(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	top := make([]MemberScore, 0, len(rows))
	for _, z := range rows {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		top = append(top, MemberScore{Member: member, Score: uint32(z.Score)})
	}
	return top, nil
}

func (c *RedisRankCache) DeleteKey(ctx context.Context, key string) (bool, error) {
	deleted, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (c *RedisRankCache) HasKey(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a sliding-window limiter backed by one sorted set per key and window.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
	seq    atomic.Uint64
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, policy Policy) (bool, error) {
	if policy.Requests <= 0 || policy.Window <= 0 {
		return true, nil
	}

	now := l.now()
	redisKey := l.getKey(key, policy.Window)
	windowStart := now.Add(-policy.Window).UnixNano()
	nowNano := now.UnixNano()
	// members must be unique even when two calls share a timestamp
	member := strconv.FormatInt(nowNano, 10) + "-" + strconv.FormatUint(l.seq.Add(1), 10)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: member})
	pipe.Expire(ctx, redisKey, policy.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(policy.Requests), nil
}

func (l *RedisRateLimiter) Remaining(ctx context.Context, key string, policy Policy) (int64, error) {
	if policy.Requests <= 0 || policy.Window <= 0 {
		return -1, nil
	}

	redisKey := l.getKey(key, policy.Window)
	windowStart := l.now().Add(-policy.Window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to get remaining: %w", err)
	}

	remaining := int64(policy.Requests) - zcard.Val()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, window.String())
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterLimiter is a Redis-backed fixed-window counter, shared across
// every server instance, so it is the authoritative limiter once Redis
// is configured.
type CounterLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewCounterLimiter builds a CounterLimiter allowing limit requests
// per window per key.
func NewCounterLimiter(client *redis.Client, limit int64, window time.Duration) *CounterLimiter {
	return &CounterLimiter{client: client, limit: limit, window: window}
}

// Allow increments key's counter for the current window and reports
// whether the caller is still under limit. A Redis error fails open:
// the caller falls back to the in-memory Limiter rather than blocking
// every request on a Redis outage.
func (c *CounterLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := c.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit counter increment failed: %w", err)
	}
	// Only the first request of a window sets the expiry, so the window
	// closes on schedule instead of sliding with every request.
	if count == 1 {
		if err := c.client.Expire(ctx, redisKey, c.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit counter expiry failed: %w", err)
		}
	}

	remaining := c.limit - count
	if remaining < 0 {
		remaining = 0
	}

	if count > c.limit {
		ttl, _ := c.client.TTL(ctx, redisKey).Result()
		return Result{Allowed: false, Limit: int(c.limit), Remaining: 0, RetryIn: ttl}, nil
	}
	return Result{Allowed: true, Limit: int(c.limit), Remaining: int(remaining)}, nil
}

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRedisUnavailable = errors.New("rate limiter store unavailable")

// Limiter enforces a fixed-window request budget per (source address, email)
// pair using Redis counters. It throttles request volume only; authentication
// failure lockout is accounted separately against the account.
type Limiter struct {
	redis  redis.UniversalClient
	max    int
	window time.Duration
}

func New(redisClient redis.UniversalClient, max int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  redisClient,
		max:    max,
		window: window,
	}
}

// Allow counts the request against the window and reports whether it is
// within budget.
func (l *Limiter) Allow(ctx context.Context, ip, email string) (bool, error) {
	key := windowKey(ip, email)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: the TTL is set only for the first hit.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count <= int64(l.max), nil
}

// Remaining returns how many requests are left in the current window.
// Missing keys mean an untouched budget.
func (l *Limiter) Remaining(ctx context.Context, ip, email string) (int, error) {
	count, err := l.redis.Get(ctx, windowKey(ip, email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return l.max, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	remaining := l.max - int(count)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func windowKey(ip, email string) string {
	return fmt.Sprintf("authrl:%s-%s", ip, email)
}

package rate

import (
	"context"
	"fmt"
	"time"
)

// WindowStore is the fixed-window counter backing the limiter, keyed by
// caller-supplied strings. The Redis implementation lives in repo/redis.
type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	ResetWindow(ctx context.Context, key string) error
}

type LoginLimiter struct {
	store  WindowStore
	max    int64
	window time.Duration
}

func NewLoginLimiter(store WindowStore, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &LoginLimiter{
		store:  store,
		max:    int64(maxAttempts),
		window: window,
	}
}

// Allow counts an attempt and reports whether it may proceed. When the window
// is exhausted the returned duration says how long until it reopens.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (time.Duration, bool, error) {
	if key == "" {
		return 0, false, fmt.Errorf("rate key is required")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, l.redisKey(key), l.window)
	if err != nil {
		return 0, false, err
	}
	if count > l.max {
		if ttl <= 0 {
			ttl = l.window
		}
		return ttl, false, nil
	}

	return 0, true, nil
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("rate key is required")
	}
	return l.store.ResetWindow(ctx, l.redisKey(key))
}

func (l *LoginLimiter) redisKey(key string) string {
	return "login_attempts:" + key
}

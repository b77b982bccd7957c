package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redrepo "github.com/m2dev/codefolio/internal/repo/redis"
	"github.com/m2dev/codefolio/internal/services/rate"
)

func newTestLimiter(t *testing.T, maxAttempts int, window time.Duration) *rate.LoginLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redrepo.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	return rate.NewLoginLimiter(redrepo.NewRateRepo(client), maxAttempts, window)
}

func TestLoginLimiterAllowsWithinWindow(t *testing.T) {
	limiter := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		retryAfter, ok, err := limiter.Allow(ctx, "admin@example.com")
		if err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
		if retryAfter != 0 {
			t.Fatalf("attempt %d got retry-after %v, want 0", i+1, retryAfter)
		}
	}
}

func TestLoginLimiterBlocksOverLimit(t *testing.T) {
	limiter := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, ok, err := limiter.Allow(ctx, "admin@example.com"); err != nil || !ok {
			t.Fatalf("warmup attempt %d: ok=%v err=%v", i+1, ok, err)
		}
	}

	retryAfter, ok, err := limiter.Allow(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("expected third attempt to be blocked")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("retry-after out of range: %v", retryAfter)
	}
}

func TestLoginLimiterKeysAreIndependent(t *testing.T) {
	limiter := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if _, ok, err := limiter.Allow(ctx, "a@example.com"); err != nil || !ok {
		t.Fatalf("first key: ok=%v err=%v", ok, err)
	}
	if _, ok, err := limiter.Allow(ctx, "b@example.com"); err != nil || !ok {
		t.Fatalf("second key should not share the window: ok=%v err=%v", ok, err)
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if _, ok, err := limiter.Allow(ctx, "admin@example.com"); err != nil || !ok {
		t.Fatalf("warmup: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := limiter.Allow(ctx, "admin@example.com"); ok {
		t.Fatalf("expected second attempt to be blocked")
	}

	if err := limiter.Reset(ctx, "admin@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, ok, err := limiter.Allow(ctx, "admin@example.com"); err != nil || !ok {
		t.Fatalf("attempt after reset: ok=%v err=%v", ok, err)
	}
}

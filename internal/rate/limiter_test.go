package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterTest(t *testing.T) (*Limiter, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb), mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func slidingPolicy(window time.Duration, max int64) Policy {
	return Policy{Dimension: DimensionIP, Window: window, Max: max, Algorithm: SlidingWindow, Enabled: true}
}

func fixedPolicy(window time.Duration, max int64) Policy {
	return Policy{Dimension: DimensionIP, Window: window, Max: max, Algorithm: FixedWindow, Enabled: true}
}

func TestSlidingWindowBound(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	current := time.UnixMilli(1_000_000)
	limiter.WithClock(func() time.Time { return current })

	p := slidingPolicy(10*time.Second, 3)
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "k", p)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("expected call %d to be admitted", i)
		}
		current = current.Add(time.Second)
	}

	allowed, err := limiter.Allow(ctx, "k", p)
	if err != nil {
		t.Fatalf("allow 4th: %v", err)
	}
	if allowed {
		t.Fatal("expected 4th call inside the window to be denied")
	}

	// Past the 10s mark from the earliest event the budget frees up again.
	current = time.UnixMilli(1_000_000).Add(10*time.Second + time.Millisecond)
	allowed, err = limiter.Allow(ctx, "k", p)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed {
		t.Fatal("expected admission after the earliest event aged out")
	}
}

func TestFixedWindowBoundary(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	// Bucket [0,10s): three admissions at t=9.9s.
	current := time.UnixMilli(9_900)
	limiter.WithClock(func() time.Time { return current })

	p := fixedPolicy(10*time.Second, 3)
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "k", p)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("expected call %d admitted in first bucket", i)
		}
	}
	if allowed, _ := limiter.Allow(ctx, "k", p); allowed {
		t.Fatal("expected 4th call in the same bucket to be denied")
	}

	// Fresh bucket [10s,20s) admits a full budget again.
	current = time.UnixMilli(10_100)
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "k", p)
		if err != nil {
			t.Fatalf("allow %d after boundary: %v", i, err)
		}
		if !allowed {
			t.Fatalf("expected call %d admitted in second bucket", i)
		}
	}
}

func TestRemaining(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	current := time.UnixMilli(1_000_000)
	limiter.WithClock(func() time.Time { return current })

	p := slidingPolicy(10*time.Second, 5)
	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(ctx, "k", p); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}

	remaining, err := limiter.Remaining(ctx, "k", 10*time.Second, 5)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("expected 3 remaining, got %d", remaining)
	}

	remaining, err = limiter.Remaining(ctx, "k", 10*time.Second, 1)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected remaining floored at 0, got %d", remaining)
	}
}

func TestResetTime(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()

	limiter.WithClock(func() time.Time { return time.UnixMilli(12_300) })

	got := limiter.ResetTime(10 * time.Second)
	if got != 7700*time.Millisecond {
		t.Fatalf("expected 7.7s to next boundary, got %v", got)
	}
}

func TestReset(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	sliding := slidingPolicy(10*time.Second, 1)
	fixed := fixedPolicy(10*time.Second, 1)
	if _, err := limiter.Allow(ctx, "k", sliding); err != nil {
		t.Fatalf("allow sliding: %v", err)
	}
	if _, err := limiter.Allow(ctx, "k", fixed); err != nil {
		t.Fatalf("allow fixed: %v", err)
	}

	if allowed, _ := limiter.Allow(ctx, "k", sliding); allowed {
		t.Fatal("expected sliding budget exhausted before reset")
	}

	if err := limiter.Reset(ctx, "k"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if allowed, _ := limiter.Allow(ctx, "k", sliding); !allowed {
		t.Fatal("expected admission after reset")
	}
	if allowed, _ := limiter.Allow(ctx, "k", fixed); !allowed {
		t.Fatal("expected fixed admission after reset")
	}
}

func TestDisabledPolicyAlwaysAllows(t *testing.T) {
	limiter, _, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	p := slidingPolicy(time.Second, 1)
	p.Enabled = false
	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(ctx, "k", p)
		if err != nil || !allowed {
			t.Fatalf("expected disabled policy to always admit, got %v %v", allowed, err)
		}
	}
}

func TestAllowFailsOpen(t *testing.T) {
	limiter, mr, done := newLimiterTest(t)
	defer done()
	ctx := context.Background()

	p := slidingPolicy(10*time.Second, 1)
	if _, err := limiter.Allow(ctx, "k", p); err != nil {
		t.Fatalf("allow: %v", err)
	}

	mr.Close()

	allowed, err := limiter.Allow(ctx, "k", p)
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if !allowed {
		t.Fatal("expected fail-open admission when the store is unreachable")
	}

	allowed, err = limiter.Allow(ctx, "k", fixedPolicy(10*time.Second, 1))
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable for fixed window, got %v", err)
	}
	if !allowed {
		t.Fatal("expected fixed window to fail open as well")
	}
}

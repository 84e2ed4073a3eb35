package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Algorithm selects the admission-control accounting strategy.
type Algorithm string

const (
	// SlidingWindow bounds bursts exactly at the cost of a sorted set per key.
	SlidingWindow Algorithm = "sliding_window"
	// FixedWindow uses one counter per time bucket.
	FixedWindow Algorithm = "fixed_window"
)

// Dimension selects what a rate-limit key is scoped to.
type Dimension string

const (
	DimensionIP     Dimension = "IP"
	DimensionUser   Dimension = "USER"
	DimensionToken  Dimension = "TOKEN"
	DimensionGlobal Dimension = "GLOBAL"
)

// Policy is the declarative per-operation rate-limit record consulted by the
// middleware at interception time.
type Policy struct {
	Dimension Dimension
	Window    time.Duration
	Max       int64
	Algorithm Algorithm
	Enabled   bool
}

const (
	slidingPrefix = "rate_limit:sliding:"
	fixedPrefix   = "rate_limit:fixed:"
)

// Prune, count, and conditionally admit in one round trip. Splitting the
// read from the write would let two concurrent callers both observe
// count < max and over-admit.
const slidingAllowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count < max then
  redis.call("ZADD", key, now, member)
  redis.call("PEXPIRE", key, window + 1000)
  return 1
end
return 0
`

var slidingAllowLua = redis.NewScript(slidingAllowScript)

// Limiter makes admission decisions against shared Redis counters. All
// decisions are atomic per key; backend failures are reported to the caller
// but never deny (fail-open).
type Limiter struct {
	redis redis.UniversalClient
	now   func() time.Time
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient) *Limiter {
	return &Limiter{
		redis: redisClient,
		now:   time.Now,
	}
}

// WithClock overrides the limiter's time source. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow decides admission for one request on the given key. A nil error with
// false means the budget is exhausted; a non-nil error always comes with
// true so an unreachable counter store can never cause an outage.
func (l *Limiter) Allow(ctx context.Context, key string, p Policy) (bool, error) {
	if !p.Enabled || p.Max <= 0 || p.Window <= 0 {
		return true, nil
	}

	switch p.Algorithm {
	case FixedWindow:
		return l.allowFixed(ctx, key, p.Window, p.Max)
	default:
		return l.allowSliding(ctx, key, p.Window, p.Max)
	}
}

// Remaining reports max - currentCount, floored at zero. Always computed
// from the sliding set so the answer is exact regardless of which algorithm
// produced the admission decisions.
func (l *Limiter) Remaining(ctx context.Context, key string, window time.Duration, max int64) (int64, error) {
	now := l.now().UnixMilli()
	slidingKey := slidingPrefix + key

	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, slidingKey, "0", strconv.FormatInt(now-window.Milliseconds(), 10))
	countCmd := pipe.ZCard(ctx, slidingKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	remaining := max - countCmd.Val()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ResetTime reports the time until the next fixed-window boundary.
func (l *Limiter) ResetTime(window time.Duration) time.Duration {
	if window <= 0 {
		return 0
	}
	now := l.now().UnixMilli()
	windowMillis := window.Milliseconds()
	next := (now/windowMillis + 1) * windowMillis
	return time.Duration(next-now) * time.Millisecond
}

// Reset clears all accounting for a key across both keyspaces.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, slidingPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var cursor uint64
	for {
		keys, next, err := l.redis.Scan(ctx, cursor, fixedPrefix+key+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if len(keys) > 0 {
			if err := l.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (l *Limiter) allowSliding(ctx context.Context, key string, window time.Duration, max int64) (bool, error) {
	now := l.now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	result, err := slidingAllowLua.Run(
		ctx,
		l.redis,
		[]string{slidingPrefix + key},
		now,
		window.Milliseconds(),
		max,
		member,
	).Int64()
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return result == 1, nil
}

func (l *Limiter) allowFixed(ctx context.Context, key string, window time.Duration, max int64) (bool, error) {
	windowMillis := window.Milliseconds()
	bucket := l.now().UnixMilli() / windowMillis * windowMillis
	bucketKey := fixedPrefix + key + ":" + strconv.FormatInt(bucket, 10)

	count, err := l.redis.Incr(ctx, bucketKey).Result()
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the bucket.
	if count == 1 {
		if err := l.redis.Expire(ctx, bucketKey, window).Err(); err != nil {
			return true, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count <= max, nil
}

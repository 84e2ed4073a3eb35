package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// DefaultTTL bounds how long an entry lives when the token's own expiry is
// unknown.
const DefaultTTL = 24 * time.Hour

const (
	entryPrefix  = "authc:blacklist:"
	reasonPrefix = "authc:blacklist:reason:"
)

// Store defines a public type used by authkit APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis      redis.UniversalClient
	defaultTTL time.Duration
}

// NewStore creates a blacklist [Store] backed by the given Redis client.
// defaultTTL <= 0 selects [DefaultTTL].
func NewStore(redisClient redis.UniversalClient, defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		redis:      redisClient,
		defaultTTL: defaultTTL,
	}
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke writes the digest entry and its reason with equal TTLs in one
// MULTI/EXEC round trip. ttl <= 0 applies the store's default window.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
func (s *Store) Revoke(ctx context.Context, token, reason string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	digest := Digest(token)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryPrefix+digest, "1", ttl)
		if reason != "" {
			pipe.Set(ctx, reasonPrefix+digest, reason, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// IsRevoked describes the isrevoked operation and its observable behavior.
//
// IsRevoked fails closed: a backend error reports true alongside the wrapped
// error so a check that cannot complete never admits the token.
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	exists, err := s.redis.Exists(ctx, entryPrefix+Digest(token)).Result()
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return exists > 0, nil
}

// Unrevoke describes the unrevoke operation and its observable behavior.
//
// Unrevoke deletes both digest entries (manual early pardon).
func (s *Store) Unrevoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	digest := Digest(token)
	if err := s.redis.Del(ctx, entryPrefix+digest, reasonPrefix+digest).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Reason describes the reason operation and its observable behavior.
//
// Reason reports the recorded revocation reason, or "" when none exists.
func (s *Store) Reason(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	reason, err := s.redis.Get(ctx, reasonPrefix+Digest(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return reason, nil
}

// Digest returns the hex SHA-256 of a token string. Exposed so callers can
// build token-scoped rate-limit keys without re-implementing the hash.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package authkit

import (
	"context"
	"fmt"
	"time"
)

// ListUserSessions describes the listusersessions operation and its observable behavior.
//
// ListUserSessions may return an error when input validation, dependency calls, or security checks fail.
// ListUserSessions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ListUserSessions(ctx context.Context, userID string) ([]*Session, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}
	sessions, err := e.sessions.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sessions, nil
}

// ListAllSessions describes the listallsessions operation and its observable behavior.
//
// ListAllSessions is an O(n) administrative scan; never call it on a request
// hot path.
func (e *Engine) ListAllSessions(ctx context.Context) ([]*Session, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}
	sessions, err := e.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sessions, nil
}

// KickOutUser describes the kickoutuser operation and its observable behavior.
//
// KickOutUser marks every session under the user's index KICK_OUT. Records
// are preserved so stale clients get a specific rejection reason.
func (e *Engine) KickOutUser(ctx context.Context, userID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if err := e.sessions.KickOutUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.metricInc(MetricSessionInvalidated)
	return nil
}

// KickOutDevice describes the kickoutdevice operation and its observable behavior.
//
// KickOutDevice marks only the sessions bound to the given device
// DEVICE_KICK_OUT; the user's other devices stay untouched.
func (e *Engine) KickOutDevice(ctx context.Context, userID, deviceID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if err := e.sessions.KickOutDevice(ctx, userID, deviceID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.metricInc(MetricSessionInvalidated)
	return nil
}

// DisableUser describes the disableuser operation and its observable behavior.
//
// DisableUser sets DISABLED on all of the user's sessions.
func (e *Engine) DisableUser(ctx context.Context, userID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if err := e.sessions.DisableUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.metricInc(MetricSessionInvalidated)
	return nil
}

// RevokeToken describes the revoketoken operation and its observable behavior.
//
// RevokeToken blacklists a specific token before its natural expiry. The
// entry TTL is derived from the token's own expiry claim when retrievable,
// else the configured default window applies.
func (e *Engine) RevokeToken(ctx context.Context, tokenStr, reason string) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	var ttl time.Duration
	if exp, ok := e.tokens.Expiry(tokenStr); ok {
		ttl = time.Until(exp)
	}

	if err := e.revocations.Revoke(ctx, tokenStr, reason, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricTokenRevoked)
	return nil
}

// UnrevokeToken describes the unrevoketoken operation and its observable behavior.
//
// UnrevokeToken removes a blacklist entry early (manual pardon).
func (e *Engine) UnrevokeToken(ctx context.Context, tokenStr string) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}
	if err := e.revocations.Unrevoke(ctx, tokenStr); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// RevocationReason describes the revocationreason operation and its observable behavior.
//
// RevocationReason reports the recorded reason for a revoked token, or ""
// when none exists.
func (e *Engine) RevocationReason(ctx context.Context, tokenStr string) (string, error) {
	if e == nil || e.revocations == nil {
		return "", ErrEngineNotReady
	}
	reason, err := e.revocations.Reason(ctx, tokenStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return reason, nil
}

// AllowRequest describes the allowrequest operation and its observable behavior.
//
// AllowRequest is fail-open: a counter-store failure admits the request and
// reports the wrapped error so callers can log it. A false result with a nil
// error means the budget is exhausted.
func (e *Engine) AllowRequest(ctx context.Context, key string, policy RateLimitPolicy) (bool, error) {
	if e == nil {
		return true, nil
	}
	if e.limiter == nil {
		return true, nil
	}

	allowed, err := e.limiter.Allow(ctx, key, policy)
	if err != nil {
		e.metricInc(MetricStoreFailOpen)
		e.log.Warn().Err(err).Str("key", key).Msg("rate limit check failed open")
		return true, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !allowed {
		e.metricInc(MetricRateLimitHit)
	}

	return allowed, nil
}

// RateLimitRemaining describes the ratelimitremaining operation and its observable behavior.
//
// RateLimitRemaining reports max - currentCount for a key, floored at zero.
func (e *Engine) RateLimitRemaining(ctx context.Context, key string, window time.Duration, max int64) (int64, error) {
	if e == nil || e.limiter == nil {
		return max, nil
	}
	remaining, err := e.limiter.Remaining(ctx, key, window, max)
	if err != nil {
		return max, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return remaining, nil
}

// RateLimitReset describes the ratelimitreset operation and its observable behavior.
//
// RateLimitReset reports the time until the next fixed-window boundary.
func (e *Engine) RateLimitReset(window time.Duration) time.Duration {
	if e == nil || e.limiter == nil {
		return 0
	}
	return e.limiter.ResetTime(window)
}

// ClearRateLimit describes the clearratelimit operation and its observable behavior.
//
// ClearRateLimit drops all accounting for a key across both algorithms.
func (e *Engine) ClearRateLimit(ctx context.Context, key string) error {
	if e == nil || e.limiter == nil {
		return nil
	}
	if err := e.limiter.Reset(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

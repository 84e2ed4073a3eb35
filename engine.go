package authkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/authkit/blacklist"
	"github.com/MrEthical07/authkit/internal/rate"
	"github.com/MrEthical07/authkit/session"
	"github.com/MrEthical07/authkit/token"
	"github.com/rs/zerolog"
)

// Engine defines a public type used by authkit APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	tokens      *token.Manager
	store       *session.Store
	sessions    *session.Manager
	limiter     *rate.Limiter
	revocations *blacklist.Store
	realm       Realm
	events      *eventDispatcher
	metrics     *Metrics
	log         zerolog.Logger
}

// Close describes the close operation and its observable behavior.
//
// Close drains and stops the event dispatcher. Safe to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.events != nil {
		e.events.close()
	}
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) EventsDropped() uint64 {
	if e == nil || e.events == nil {
		return 0
	}
	return e.events.droppedCount()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login creates a session for the principal's device binding (when session
// mode is enabled), signs a bearer token embedding the principal and the
// session key, and publishes a login event. Event delivery is best-effort
// and never fails the call.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) Login(ctx context.Context, info AuthenticationInfo, deviceID, deviceType string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if info.Principal == nil || info.Principal.UserID == "" {
		e.metricInc(MetricLoginFailure)
		return "", fmt.Errorf("%w: principal required", ErrParam)
	}
	if len(e.config.Token.Secret) == 0 {
		e.metricInc(MetricLoginFailure)
		return "", fmt.Errorf("%w: signing secret required", ErrParam)
	}

	if deviceID == "" {
		deviceID = session.DefaultDeviceID
	}

	user := *info.Principal
	user.DeviceID = deviceID
	if deviceType != "" {
		user.DeviceType = deviceType
	}
	if user.TenantID == "" {
		user.TenantID = tenantIDFromContext(ctx)
	}

	now := time.Now()
	user.ExpireAt = now.Add(e.config.Token.ExpireTime).UnixMilli()

	var sessionKey string
	if e.config.Session.Enabled {
		sess, err := e.sessions.Create(ctx, user.UserID, user.TenantID, deviceID, deviceType, e.config.Token.ExpireTime, e.config.Session.Timeout)
		if err != nil {
			e.metricInc(MetricLoginFailure)
			return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		sessionKey = sess.SessionKey
		e.metricInc(MetricSessionCreated)
	}

	principalJSON, err := json.Marshal(&user)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return "", fmt.Errorf("%w: %v", ErrParam, err)
	}

	signed, err := e.tokens.Sign(user.UserID, principalJSON, sessionKey, 0)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return "", err
	}

	e.events.emit(ctx, LoginEvent{
		UserID:     user.UserID,
		Username:   user.Username,
		TenantID:   user.TenantID,
		DeviceID:   deviceID,
		SessionKey: sessionKey,
		ClientIP:   clientIPFromContext(ctx),
		UserAgent:  userAgentFromContext(ctx),
		At:         now,
	})

	e.metricInc(MetricLoginSuccess)
	return signed, nil
}

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate runs the per-request state machine: token verification,
// blacklist check, session load, device, status and idle-timeout validation,
// then touch and renewal. Every rejection happens before any session
// mutation. Store failures on this path reject the request.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) Authenticate(ctx context.Context, tokenStr, deviceID string) (*LoginUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Verify(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		e.metricInc(MetricAuthenticateFailure)
		return nil, mapTokenError(err)
	}

	if e.config.Blacklist.Enabled && e.revocations != nil {
		revoked, err := e.revocations.IsRevoked(ctx, tokenStr)
		if revoked {
			e.metricInc(MetricTokenRevokedHit)
			e.metricInc(MetricAuthenticateFailure)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTokenRevoked, err)
			}
			return nil, ErrTokenRevoked
		}
	}

	user, err := e.resolvePrincipal(ctx, claims, tokenStr, deviceID)
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		return nil, err
	}

	if !e.config.Session.Enabled {
		e.metricInc(MetricAuthenticateSuccess)
		return user, nil
	}

	if claims.SessionKey == "" {
		e.metricInc(MetricAuthenticateFailure)
		return nil, ErrSessionKeyMissing
	}

	sess, err := e.sessions.Get(ctx, claims.SessionKey)
	if err != nil {
		e.metricInc(MetricSessionRejected)
		e.metricInc(MetricAuthenticateFailure)
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	now := time.Now()
	if err := e.validateSession(sess, deviceID, now); err != nil {
		e.metricInc(MetricSessionRejected)
		e.metricInc(MetricAuthenticateFailure)
		return nil, err
	}

	sess.Touch(now)
	if e.config.Session.RenewalEnabled {
		sess.Renew(now, e.config.Session.RenewalInterval)
	}
	if err := e.sessions.Update(ctx, sess); err != nil {
		e.metricInc(MetricAuthenticateFailure)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	e.metricInc(MetricAuthenticateSuccess)
	return user, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout deletes the session referenced by the token. Unlike kick-out, the
// record is removed entirely. Tokens without a session reference are a no-op.
func (e *Engine) Logout(ctx context.Context, tokenStr string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if !e.config.Session.Enabled {
		return nil
	}

	sessionKey, ok := e.tokens.ExtractSessionKey(tokenStr)
	if !ok {
		return nil
	}

	sess, err := e.sessions.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.sessions.Delete(ctx, sess); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	return nil
}

// validateSession runs the ordered rejection checks. Cheapest first, and all
// of them before any mutation so a rejected request never touches state.
func (e *Engine) validateSession(sess *session.Session, deviceID string, now time.Time) error {
	if sess.IsExpired(now) {
		return ErrSessionExpired
	}

	if e.config.Session.ValidateDevice {
		if deviceID == "" {
			deviceID = session.DefaultDeviceID
		}
		if sess.DeviceID != deviceID {
			e.metricInc(MetricDeviceRejected)
			return ErrDeviceMismatch
		}
	}

	if e.config.Session.ValidateStatus {
		if err := statusToError(sess.Status); err != nil {
			return err
		}
	}

	if sess.IdleTimedOut(now) {
		return ErrSessionTimedOut
	}

	return nil
}

// resolvePrincipal prefers the realm's answer when one is configured and
// falls back to the principal embedded in the verified token.
func (e *Engine) resolvePrincipal(ctx context.Context, claims *token.Claims, tokenStr, deviceID string) (*LoginUser, error) {
	if e.realm != nil {
		resolved, err := e.realm.Resolve(ctx, AuthenticationToken{
			Token:    tokenStr,
			DeviceID: deviceID,
			Host:     clientIPFromContext(ctx),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		if resolved != nil {
			return resolved, nil
		}
	}

	var user LoginUser
	if err := json.Unmarshal([]byte(claims.User), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if user.UserID == "" {
		user.UserID = claims.Subject
	}

	return &user, nil
}

func statusToError(status session.Status) error {
	switch status {
	case session.StatusNormal:
		return nil
	case session.StatusKickOut:
		return ErrSessionKickedOut
	case session.StatusDisabled:
		return ErrSessionDisabled
	case session.StatusDeviceKickOut:
		return ErrDeviceKickedOut
	case session.StatusReplaced:
		return ErrSessionReplaced
	default:
		return ErrUnauthorized
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenMissing):
		return ErrTokenMissing
	case errors.Is(err, token.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}

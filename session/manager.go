package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager defines a public type used by authkit APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	store *Store
	now   func() time.Time
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(store *Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the manager's time source. Tests only.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Create describes the create operation and its observable behavior.
//
// Create generates the session key {userId}:{deviceId}:{opaque-uuid}, marks
// any still-active session on the same device REPLACED, and persists the new
// record with status NORMAL.
//
// Create may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) Create(ctx context.Context, userID, tenantID, deviceID, deviceType string, ttl, idleTimeout time.Duration) (*Session, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl required")
	}
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}

	now := m.now()

	if err := m.replaceDeviceSessions(ctx, userID, deviceID, now); err != nil {
		return nil, err
	}

	sess := &Session{
		SessionKey:     userID + ":" + deviceID + ":" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:         userID,
		TenantID:       tenantID,
		DeviceID:       deviceID,
		DeviceType:     deviceType,
		Status:         StatusNormal,
		StartTime:      now.UnixMilli(),
		LastAccessTime: now.UnixMilli(),
		ExpireAt:       now.Add(ttl).UnixMilli(),
		Timeout:        idleTimeout.Milliseconds(),
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Get(ctx context.Context, sessionKey string) (*Session, error) {
	return m.store.Get(ctx, sessionKey)
}

// Update describes the update operation and its observable behavior.
//
// Update may return an error when input validation, dependency calls, or security checks fail.
// Update does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Update(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess)
}

// Delete describes the delete operation and its observable behavior.
//
// Delete removes the record entirely. Normal logout path; administrative
// invalidation goes through the status mutators instead so the record
// survives for a specific rejection reason.
func (m *Manager) Delete(ctx context.Context, sess *Session) error {
	return m.store.Delete(ctx, sess)
}

// KickOutUser describes the kickoutuser operation and its observable behavior.
//
// KickOutUser may return an error when input validation, dependency calls, or security checks fail.
// KickOutUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) KickOutUser(ctx context.Context, userID string) error {
	return m.markUserSessions(ctx, userID, "", StatusKickOut)
}

// KickOutDevice describes the kickoutdevice operation and its observable behavior.
//
// KickOutDevice may return an error when input validation, dependency calls, or security checks fail.
// KickOutDevice does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) KickOutDevice(ctx context.Context, userID, deviceID string) error {
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}
	return m.markUserSessions(ctx, userID, deviceID, StatusDeviceKickOut)
}

// DisableUser describes the disableuser operation and its observable behavior.
//
// DisableUser may return an error when input validation, dependency calls, or security checks fail.
// DisableUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) DisableUser(ctx context.Context, userID string) error {
	return m.markUserSessions(ctx, userID, "", StatusDisabled)
}

// ListForUser describes the listforuser operation and its observable behavior.
//
// ListForUser may return an error when input validation, dependency calls, or security checks fail.
// ListForUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ListForUser(ctx context.Context, userID string) ([]*Session, error) {
	keys, err := m.store.UserSessionKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.store.GetMany(ctx, keys)
}

// ListAll describes the listall operation and its observable behavior.
//
// ListAll may return an error when input validation, dependency calls, or security checks fail.
// ListAll does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) ListAll(ctx context.Context) ([]*Session, error) {
	return m.store.ListAll(ctx)
}

// markUserSessions sets the status on all (or one device's) live sessions of
// a user. Writes are best-effort per session; the first store error aborts.
func (m *Manager) markUserSessions(ctx context.Context, userID, deviceID string, status Status) error {
	if userID == "" {
		return errors.New("user id required")
	}

	sessions, err := m.ListForUser(ctx, userID)
	if err != nil {
		return err
	}

	now := m.now()
	for _, sess := range sessions {
		if deviceID != "" && sess.DeviceID != deviceID {
			continue
		}
		if sess.IsExpired(now) {
			continue
		}
		sess.MarkStatus(status, now)
		if err := m.store.Save(ctx, sess); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) replaceDeviceSessions(ctx context.Context, userID, deviceID string, now time.Time) error {
	sessions, err := m.ListForUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, sess := range sessions {
		if sess.DeviceID != deviceID || sess.Status != StatusNormal || sess.IsExpired(now) {
			continue
		}
		sess.MarkStatus(StatusReplaced, now)
		if err := m.store.Save(ctx, sess); err != nil {
			return err
		}
	}

	return nil
}

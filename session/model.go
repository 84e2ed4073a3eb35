package session

import "time"

// Status defines a public type used by authkit APIs.
//
// Status instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Status int

const (
	// StatusDisabled is an exported constant or variable used by the authentication engine.
	StatusDisabled Status = 0
	// StatusNormal is an exported constant or variable used by the authentication engine.
	StatusNormal Status = 1
	// StatusKickOut is an exported constant or variable used by the authentication engine.
	StatusKickOut Status = -1
	// StatusDeviceKickOut is an exported constant or variable used by the authentication engine.
	StatusDeviceKickOut Status = -2
	// StatusReplaced is an exported constant or variable used by the authentication engine.
	StatusReplaced Status = -3
)

// DefaultDeviceID is an exported constant or variable used by the authentication engine.
const DefaultDeviceID = "default"

// Session defines a public type used by authkit APIs.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// All timestamps are epoch milliseconds; Timeout is the idle budget in
// milliseconds (0 disables the idle check).
type Session struct {
	SessionKey     string `json:"sessionKey"`
	UserID         string `json:"userId"`
	TenantID       string `json:"tenantId,omitempty"`
	DeviceID       string `json:"deviceId"`
	DeviceType     string `json:"deviceType,omitempty"`
	Status         Status `json:"status"`
	StartTime      int64  `json:"startTime"`
	LastAccessTime int64  `json:"lastAccessTime"`
	ExpireAt       int64  `json:"expireAt"`
	OperateAt      int64  `json:"operateAt,omitempty"`
	Timeout        int64  `json:"timeout,omitempty"`
}

// IsExpired describes the isexpired operation and its observable behavior.
//
// IsExpired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpireAt <= now.UnixMilli()
}

// IdleTimedOut describes the idletimedout operation and its observable behavior.
//
// IdleTimedOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Session) IdleTimedOut(now time.Time) bool {
	if s.Timeout <= 0 {
		return false
	}
	return now.UnixMilli()-s.LastAccessTime > s.Timeout
}

// Touch describes the touch operation and its observable behavior.
//
// Touch does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Session) Touch(now time.Time) {
	s.LastAccessTime = now.UnixMilli()
}

// Renew describes the renew operation and its observable behavior.
//
// Renew extends ExpireAt to now + interval. The expiry only ever moves
// forward; a renewal that would shorten the session is a no-op.
func (s *Session) Renew(now time.Time, interval time.Duration) {
	next := now.Add(interval).UnixMilli()
	if next > s.ExpireAt {
		s.ExpireAt = next
	}
}

// MarkStatus describes the markstatus operation and its observable behavior.
//
// MarkStatus records the administrative mutation instant in OperateAt.
func (s *Session) MarkStatus(status Status, now time.Time) {
	s.Status = status
	s.OperateAt = now.UnixMilli()
}

// RemainingTTL describes the remainingttl operation and its observable behavior.
//
// RemainingTTL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Session) RemainingTTL(now time.Time) time.Duration {
	return time.Duration(s.ExpireAt-now.UnixMilli()) * time.Millisecond
}

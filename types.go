package authkit

import (
	"context"

	"github.com/MrEthical07/authkit/internal/rate"
	"github.com/MrEthical07/authkit/session"
)

// LoginUser defines a public type used by authkit APIs.
//
// LoginUser is the resolved, verified principal attached to a request:
// identity, authorization attributes, and the device binding it was issued
// under. Immutable once issued within a request.
type LoginUser struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username,omitempty"`
	Nickname    string   `json:"nickname,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	TenantID    string   `json:"tenantId,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	ExpireAt    int64    `json:"expireAt,omitempty"`
	DeviceID    string   `json:"deviceId,omitempty"`
	DeviceType  string   `json:"deviceType,omitempty"`
}

// AuthenticationToken defines a public type used by authkit APIs.
//
// AuthenticationToken carries the raw bearer token plus the request-derived
// attributes a [Realm] may need to resolve it.
type AuthenticationToken struct {
	Token    string
	DeviceID string
	Host     string
}

// AuthenticationInfo defines a public type used by authkit APIs.
//
// AuthenticationInfo is the validated credential material handed to Login:
// the principal resolved by the embedder plus the secret proof it presented.
type AuthenticationInfo struct {
	Principal   *LoginUser
	Credentials string
}

// Realm resolves a presented token into a principal. Implementations are
// supplied by the embedder; environments without a backing identity store
// use [NoOpRealm].
type Realm interface {
	Resolve(ctx context.Context, token AuthenticationToken) (*LoginUser, error)
}

// NoOpRealm defines a public type used by authkit APIs.
//
// NoOpRealm trusts the principal embedded in the verified token and performs
// no external lookup.
type NoOpRealm struct{}

// Resolve describes the resolve operation and its observable behavior.
//
// Resolve does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpRealm) Resolve(ctx context.Context, token AuthenticationToken) (*LoginUser, error) {
	return nil, nil
}

// Session is an exported alias for the session record type.
type Session = session.Session

// SessionStatus is an exported alias for the session status type.
type SessionStatus = session.Status

const (
	// StatusNormal is an exported constant or variable used by the authentication engine.
	StatusNormal = session.StatusNormal
	// StatusDisabled is an exported constant or variable used by the authentication engine.
	StatusDisabled = session.StatusDisabled
	// StatusKickOut is an exported constant or variable used by the authentication engine.
	StatusKickOut = session.StatusKickOut
	// StatusDeviceKickOut is an exported constant or variable used by the authentication engine.
	StatusDeviceKickOut = session.StatusDeviceKickOut
	// StatusReplaced is an exported constant or variable used by the authentication engine.
	StatusReplaced = session.StatusReplaced
)

// RateLimitPolicy is an exported alias for the declarative per-route
// rate-limit record consumed by the middleware.
type RateLimitPolicy = rate.Policy

// RateLimitDimension is an exported alias for the rate-limit key scope.
type RateLimitDimension = rate.Dimension

// RateLimitAlgorithm is an exported alias for the accounting strategy.
type RateLimitAlgorithm = rate.Algorithm

const (
	// DimensionIP is an exported constant or variable used by the authentication engine.
	DimensionIP = rate.DimensionIP
	// DimensionUser is an exported constant or variable used by the authentication engine.
	DimensionUser = rate.DimensionUser
	// DimensionToken is an exported constant or variable used by the authentication engine.
	DimensionToken = rate.DimensionToken
	// DimensionGlobal is an exported constant or variable used by the authentication engine.
	DimensionGlobal = rate.DimensionGlobal
	// SlidingWindow is an exported constant or variable used by the authentication engine.
	SlidingWindow = rate.SlidingWindow
	// FixedWindow is an exported constant or variable used by the authentication engine.
	FixedWindow = rate.FixedWindow
)

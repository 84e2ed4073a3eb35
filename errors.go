package authkit

import "errors"

var (
	// ErrParam is an exported constant or variable used by the authentication engine.
	ErrParam = errors.New("invalid parameter")
	// ErrUnauthorized is an exported constant or variable used by the authentication engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenMissing is an exported constant or variable used by the authentication engine.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is an exported constant or variable used by the authentication engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrSessionKeyMissing is an exported constant or variable used by the authentication engine.
	ErrSessionKeyMissing = errors.New("session key missing")
	// ErrSessionNotFound is an exported constant or variable used by the authentication engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is an exported constant or variable used by the authentication engine.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionTimedOut is an exported constant or variable used by the authentication engine.
	ErrSessionTimedOut = errors.New("session timed out")
	// ErrDeviceMismatch is an exported constant or variable used by the authentication engine.
	ErrDeviceMismatch = errors.New("device mismatch")
	// ErrSessionKickedOut is an exported constant or variable used by the authentication engine.
	ErrSessionKickedOut = errors.New("kicked out")
	// ErrSessionDisabled is an exported constant or variable used by the authentication engine.
	ErrSessionDisabled = errors.New("disabled")
	// ErrDeviceKickedOut is an exported constant or variable used by the authentication engine.
	ErrDeviceKickedOut = errors.New("device kicked out")
	// ErrSessionReplaced is an exported constant or variable used by the authentication engine.
	ErrSessionReplaced = errors.New("replaced by another login")
	// ErrRateLimited is an exported constant or variable used by the authentication engine.
	ErrRateLimited = errors.New("too many requests")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// IsUnauthorized reports whether err belongs to the rejection class that maps
// to an HTTP 401: token problems, session problems, and ErrUnauthorized
// itself. Store failures on the authenticate path are included because that
// path fails closed.
func IsUnauthorized(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrSessionKeyMissing),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrSessionTimedOut),
		errors.Is(err, ErrDeviceMismatch),
		errors.Is(err, ErrSessionKickedOut),
		errors.Is(err, ErrSessionDisabled),
		errors.Is(err, ErrDeviceKickedOut),
		errors.Is(err, ErrSessionReplaced):
		return true
	}
	return false
}

package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"strings"

	authkit "github.com/MrEthical07/authkit"
)

// GuardConfig defines a public type used by authkit APIs.
//
// GuardConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardConfig struct {
	TokenHeader  string
	TokenPrefix  string
	TokenCookie  string // optional fallback when the header is absent
	DeviceHeader string
	TenantHeader string
	ExcludePaths []string
}

func (cfg GuardConfig) normalized() GuardConfig {
	if cfg.TokenHeader == "" {
		cfg.TokenHeader = "Authorization"
	}
	if cfg.TokenPrefix == "" {
		cfg.TokenPrefix = "Bearer "
	}
	if cfg.DeviceHeader == "" {
		cfg.DeviceHeader = "X-Device-Id"
	}
	if cfg.TenantHeader == "" {
		cfg.TenantHeader = "X-Tenant-Id"
	}
	return cfg
}

// AuthGuard describes the authguard operation and its observable behavior.
//
// AuthGuard wraps a handler with bearer-token authentication. Excluded paths
// pass through untouched. On success the resolved principal is installed in
// the request context; on failure the request is rejected with a 401 JSON
// body and the handler is never invoked.
func AuthGuard(engine *authkit.Engine, cfg GuardConfig) func(http.Handler) http.Handler {
	cfg = cfg.normalized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pathExcluded(cfg.ExcludePaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if engine == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			tokenStr, ok := extractToken(r, cfg)
			if !ok {
				writeError(w, http.StatusUnauthorized, "token missing")
				return
			}

			ctx := enrichContext(r.Context(), r, cfg)

			user, err := engine.Authenticate(ctx, tokenStr, resolveDeviceID(r, cfg))
			if err != nil {
				writeError(w, http.StatusUnauthorized, rejectionMessage(err))
				return
			}

			ctx = authkit.WithLoginUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the configured header, stripping
// the prefix, and falls back to the configured cookie when the header is
// empty.
func extractToken(r *http.Request, cfg GuardConfig) (string, bool) {
	value := r.Header.Get(cfg.TokenHeader)
	if value != "" {
		if cfg.TokenPrefix != "" {
			if !strings.HasPrefix(value, cfg.TokenPrefix) {
				return "", false
			}
			value = value[len(cfg.TokenPrefix):]
		}
		if value == "" {
			return "", false
		}
		return value, true
	}

	if cfg.TokenCookie != "" {
		if c, err := r.Cookie(cfg.TokenCookie); err == nil && c.Value != "" {
			return c.Value, true
		}
	}

	return "", false
}

// resolveDeviceID derives a stable device identity for the request. The
// explicit header wins; without it the User-Agent digest gives browser-grade
// stability, and the client IP is the last resort.
func resolveDeviceID(r *http.Request, cfg GuardConfig) string {
	if device := r.Header.Get(cfg.DeviceHeader); device != "" {
		return device
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		sum := sha256.Sum256([]byte(ua))
		return hex.EncodeToString(sum[:])[:16]
	}

	return clientIP(r)
}

func enrichContext(ctx context.Context, r *http.Request, cfg GuardConfig) context.Context {
	ctx = authkit.WithClientIP(ctx, clientIP(r))
	if ua := r.Header.Get("User-Agent"); ua != "" {
		ctx = authkit.WithUserAgent(ctx, ua)
	}
	if tenant := r.Header.Get(cfg.TenantHeader); tenant != "" {
		ctx = authkit.WithTenantID(ctx, tenant)
	}
	return ctx
}

// clientIP prefers proxy-forwarded addresses over the socket peer. Only the
// first X-Forwarded-For hop is used.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}

	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// pathExcluded matches the request path against exclusion patterns. A "*"
// segment matches exactly one path segment, a trailing "**" matches any
// remainder including none.
func pathExcluded(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matchPath(pattern, path) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	pSegs := splitPath(pattern)
	segs := splitPath(path)

	for i, pSeg := range pSegs {
		if pSeg == "**" {
			return true
		}
		if i >= len(segs) {
			return false
		}
		if pSeg != "*" && pSeg != segs[i] {
			return false
		}
	}

	return len(pSegs) == len(segs)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// rejectionMessage maps an authentication failure to a stable client-facing
// message without leaking internal details.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, authkit.ErrTokenMissing):
		return "token missing"
	case errors.Is(err, authkit.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, authkit.ErrTokenRevoked):
		return "token revoked"
	case errors.Is(err, authkit.ErrTokenInvalid):
		return "token invalid"
	case errors.Is(err, authkit.ErrSessionExpired):
		return "session expired"
	case errors.Is(err, authkit.ErrSessionTimedOut):
		return "session timed out"
	case errors.Is(err, authkit.ErrSessionKickedOut):
		return "kicked out"
	case errors.Is(err, authkit.ErrDeviceKickedOut):
		return "device kicked out"
	case errors.Is(err, authkit.ErrSessionReplaced):
		return "replaced by another login"
	case errors.Is(err, authkit.ErrSessionDisabled):
		return "disabled"
	case errors.Is(err, authkit.ErrDeviceMismatch):
		return "device mismatch"
	case errors.Is(err, authkit.ErrSessionNotFound), errors.Is(err, authkit.ErrSessionKeyMissing):
		return "session not found"
	default:
		return "unauthorized"
	}
}

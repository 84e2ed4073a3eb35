package middleware

import (
	"net/http"
	"strconv"
	"time"

	authkit "github.com/MrEthical07/authkit"
	"github.com/MrEthical07/authkit/blacklist"
)

// RateLimit describes the ratelimit operation and its observable behavior.
//
// RateLimit wraps a handler with per-route admission control. The accounting
// key is derived from the policy dimension plus the request method and path,
// so every route gets an independent budget. Counter-store failures admit the
// request (fail-open). A denial renders a 429 JSON body with a Retry-After
// hint.
func RateLimit(engine *authkit.Engine, policy authkit.RateLimitPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil || !policy.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := dimensionKey(r, policy.Dimension)

			allowed, _ := engine.AllowRequest(r.Context(), key, policy)
			if !allowed {
				if reset := engine.RateLimitReset(policy.Window); reset > 0 {
					seconds := int64(reset / time.Second)
					if reset%time.Second != 0 {
						seconds++
					}
					w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
				}
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// dimensionKey builds the accounting key for a request. USER falls back to
// the client IP before authentication has run, TOKEN falls back to the client
// IP for anonymous requests. Raw tokens never appear in key material, only
// their digest.
func dimensionKey(r *http.Request, dimension authkit.RateLimitDimension) string {
	route := r.Method + ":" + r.URL.Path

	switch dimension {
	case authkit.DimensionUser:
		if user, ok := authkit.LoginUserFromContext(r.Context()); ok && user.UserID != "" {
			return "user:" + user.UserID + ":" + route
		}
		return "ip:" + clientIP(r) + ":" + route
	case authkit.DimensionToken:
		if tokenStr, ok := extractToken(r, GuardConfig{}.normalized()); ok {
			return "token:" + blacklist.Digest(tokenStr) + ":" + route
		}
		return "ip:" + clientIP(r) + ":" + route
	case authkit.DimensionGlobal:
		return "global:" + route
	default:
		return "ip:" + clientIP(r) + ":" + route
	}
}

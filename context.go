package authkit

import "context"

type clientIPContextKey struct{}
type tenantIDContextKey struct{}
type userAgentContextKey struct{}
type loginUserContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Engine uses it
// for audit fields on login events; the middleware uses it for per-IP rate
// limiting and device-id fallback.
//
//	Docs: docs/rate_limiting.md
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithTenantID attaches a tenant identifier to ctx. When multi-tenancy is
// not in play, the default tenant "0" is used.
//
//	Docs: docs/session.md
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

// WithUserAgent attaches the HTTP User-Agent string to ctx. The middleware
// derives a fallback device id from it when no device header is present.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

// WithLoginUser attaches the authenticated principal to ctx. The middleware
// installs it after a successful authenticate; the value's lifetime is the
// request's, so there is nothing to clear on exit paths.
func WithLoginUser(ctx context.Context, user *LoginUser) context.Context {
	return context.WithValue(ctx, loginUserContextKey{}, user)
}

// LoginUserFromContext returns the request-scoped principal, if any.
func LoginUserFromContext(ctx context.Context) (*LoginUser, bool) {
	if ctx == nil {
		return nil, false
	}

	user, ok := ctx.Value(loginUserContextKey{}).(*LoginUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func userAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	userAgent, _ := ctx.Value(userAgentContextKey{}).(string)
	return userAgent
}

func tenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "0"
	}

	tenantID, _ := ctx.Value(tenantIDContextKey{}).(string)
	if tenantID == "" {
		return "0"
	}

	return tenantID
}

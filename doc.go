// Package authkit provides an embeddable authentication and session security
// core: HMAC-signed bearer tokens carrying a serialized principal, a
// Redis-backed session lifecycle with per-device tracking and forced-logout
// semantics, a distributed rate limiter with two interchangeable algorithms,
// and a token-revocation blacklist.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginUser, Session, LoginEvent, MetricsSnapshot). Token
// codec, session persistence, blacklist, and rate-limit accounting live in
// sub-packages; the middleware package adapts the Engine to net/http.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Store credentials: principal lookup is delegated to the [Realm]
//     supplied by the embedder.
//   - Import any sub-package that re-imports authkit (no import cycles).
//
// # Failure posture
//
// Authenticate is fail-closed: an unreachable session store or blacklist
// rejects the request. Rate limiting is fail-open: an unreachable counter
// store admits the request. Login-event delivery is best-effort and can
// never fail a login.
package authkit

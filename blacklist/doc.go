// Package blacklist provides an independent token-revocation list keyed by a
// SHA-256 digest of the token string, for emergency invalidation outside
// normal session expiry.
//
// # Storage layout
//
// Presence flag under authc:blacklist:{digest} and an optional
// human-readable reason under authc:blacklist:reason:{digest}, written
// together with equal TTLs. Raw tokens are never stored.
//
// # Failure policy
//
// Revocation checks fail closed: a check that cannot be completed reports
// the token as revoked. The inverse of the rate limiter's posture, because
// here the cost of a wrong answer is admitting a compromised token.
//
// # What this package must NOT do
//
//   - Parse or verify tokens (TTL derivation from expiry claims is the
//     Engine's job).
//   - Import authkit or token (no upward imports).
package blacklist

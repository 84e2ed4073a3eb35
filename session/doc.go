// Package session provides Redis-backed session persistence and the lifecycle
// operations (create, touch, renew, kick-out, disable, delete) for
// authenticated device bindings.
//
// # Storage layout
//
// Each session is one JSON record under authc:session:{sessionKey} with a TTL
// derived from its absolute expiry, plus membership in the owning user's
// index set authc:user:sessions:{userId}. Kick-out and disable mutate the
// record's status in place rather than deleting it, so a stale client gets a
// specific rejection reason on its next request.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations), the [Session] model, and
// the [Manager] lifecycle rules. It does NOT interpret bearer tokens or
// enforce authentication policy — those responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import authkit or token (no upward imports).
//   - Perform application-level authorization decisions.
//   - Store credentials or token strings in [Session] fields.
package session

// Package token signs and verifies HMAC bearer tokens that carry a serialized
// principal payload and an optional server-side session reference.
//
// # Architecture boundaries
//
// This package owns token issuance, signature verification, and best-effort
// claim extraction. It does NOT load sessions, consult the blacklist, or make
// authorization decisions — those responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import authkit or session (no upward imports).
//   - Perform any store I/O (all operations are pure over secret + token).
package token

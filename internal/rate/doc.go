// Package rate provides internal primitives for Redis-backed request
// accounting: sliding-window and fixed-window admission checks, remaining
// budget queries, and window reset arithmetic.
//
// # Window semantics
//
// Sliding window: per-key sorted set of event timestamps, pruned, counted,
// and conditionally extended in one atomic Lua script. Bounds burstiness to
// exactly max events in any trailing window-length interval. Key prefix:
// rate_limit:sliding:
//
// Fixed window: per-bucket counter, INCR + conditional EXPIRE on first hit.
// Cheaper, but admits up to 2×max across a bucket boundary. Key layout:
// rate_limit:fixed:{key}:{bucketStart}
//
// # What this package must NOT do
//
//   - Construct dimension keys (middleware owns key construction).
//   - Deny on backend failure (admission is fail-open by contract).
//   - Be imported outside the authkit module.
package rate

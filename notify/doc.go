// Package notify provides a ready-made event sink that fans login events out
// to in-process subscribers over a topic bus. It is the bridge between the
// engine's single-sink event contract and applications that want several
// independent listeners (audit writers, alerting, cache warmers).
//
// # What this package must NOT do
//
//   - Block login delivery: publishing happens on the engine's dispatcher
//     goroutine, so subscribers doing slow work should register async.
//   - Reach outside the process; wiring events to external brokers is the
//     embedder's job.
package notify

// Package store provides SQLite-backed durable storage for recorded
// scenario runs.
//
// A run is one execution of a scenario: its run ID, trace hash, pass flag
// and the seq the logical clock started from. Each step of the run is kept
// both as queryable columns (op, target, outcome, size, capacity) and as the
// canonical JSON record the trace hash was computed over, so a stored trace
// can be re-hashed without re-running anything.
//
// Writes are append-only and idempotent: writing a run whose ID already
// exists is a no-op. All reads order steps by seq ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

// Package store provides optional SQLite-backed persistence for
// validation runs.
//
// Each run records the verifier spec, the canonical report JSON, and the
// aggregate counts, keyed by a UUIDv7 id so listing in id order is also
// listing in time order. The engine itself never touches the store; the
// CLI writes a run after validation when asked to.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store

// Package sqlite provides the SQLite-backed checkpoint and run stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database file holds:
//
//   - checkpoints: one row per synced item (driven.CheckpointStore)
//   - sync_runs: the audit trail of runs (driven.RunStore)
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// Item IDs are stored in a signed INTEGER column by bit reinterpretation
// (see domain.StorageID). Timestamps are Unix nanoseconds in UTC.
//
// # Concurrency
//
// The store assumes a single writer. WAL mode and a busy timeout let a
// status reader coexist with a running sync, but two concurrent runs against
// the same file are not supported.
package sqlite

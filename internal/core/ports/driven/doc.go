// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Tracker: Opens a watermark-filtered PagedSource over the issue tracker
//   - PagedSource: Fetches listing pages and flattened comment lists
//   - CheckpointStore: Per-item sync progress and the resumption watermark
//   - SearchSink: Idempotent document upserts into the search index
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Audit trail of sync runs. Without it, runs are only logged.
//   - ProgressReporter: Progress display. Without it, no progress is shown.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven

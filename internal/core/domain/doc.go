// Package domain defines the core business entities for issuesync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ItemSummary: one entry of a tracker listing page
//   - Item: an issue hydrated with its ordered comments
//   - Document: the projection of an Item written to the search sink
//   - CheckpointRecord: persisted per-item sync progress
//   - SyncRun: audit record of one synchronisation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

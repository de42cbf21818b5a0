package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// CheckpointStore persists per-item sync progress.
//
// Implementations assume a single writer. Concurrent runs against the same
// store are not supported.
type CheckpointStore interface {
	// Watermark returns the greatest LastUpdateAt across all records, or
	// domain.BeginningOfTime when the store is empty.
	Watermark(ctx context.Context) (time.Time, error)

	// Upsert inserts the record or overwrites the existing one with the same ID.
	Upsert(ctx context.Context, record domain.CheckpointRecord) error

	// Get returns the record for an item ID, or domain.ErrNotFound.
	Get(ctx context.Context, id uint64) (*domain.CheckpointRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// RunStore keeps the audit trail of sync runs.
type RunStore interface {
	// SaveRun inserts or updates a run record.
	SaveRun(ctx context.Context, run domain.SyncRun) error

	// LastRun returns the most recently started run, or domain.ErrNotFound.
	LastRun(ctx context.Context) (*domain.SyncRun, error)
}

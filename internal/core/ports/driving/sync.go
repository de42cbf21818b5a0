package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// Synchronizer mirrors tracker items into the search sink.
type Synchronizer interface {
	// Run performs one synchronisation pass from the stored watermark until
	// the source is exhausted. Any failure aborts the run; re-running
	// resumes from the last fully committed item.
	Run(ctx context.Context) (*domain.SyncReport, error)
}

// StatusReader reports persisted synchronisation state.
type StatusReader interface {
	// Status returns the current watermark, record count, and last run.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus is a snapshot of persisted synchronisation state.
type SyncStatus struct {
	// Watermark is the latest committed update time.
	Watermark time.Time

	// Records is the number of checkpoint records.
	Records int

	// LastRun is the most recent run, or nil if none was recorded.
	LastRun *domain.SyncRun
}

// IndexSetup prepares the search index before the first run.
type IndexSetup interface {
	// EnsureIndex creates the index if absent and applies its settings.
	EnsureIndex(ctx context.Context) error
}

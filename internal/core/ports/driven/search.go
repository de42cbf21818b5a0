package driven

import (
	"context"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// SearchSink writes documents into the full-text search index.
type SearchSink interface {
	// Upsert adds or replaces documents keyed by Document.ID. It returns only
	// after the index has accepted the write. A write the index rejects is
	// reported as *domain.SinkRejectionError.
	Upsert(ctx context.Context, docs []domain.Document) error
}

// IndexProvisioner bootstraps the search index before a run.
type IndexProvisioner interface {
	// EnsureIndex creates the index and applies its settings. Safe to call
	// when the index already exists.
	EnsureIndex(ctx context.Context) error
}

package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// Tracker opens listings over a remote issue tracker.
type Tracker interface {
	// Source returns a PagedSource listing items updated at or after since,
	// sorted ascending by update time. A since equal to
	// domain.BeginningOfTime disables the filter.
	Source(since time.Time) PagedSource
}

// PagedSource fetches one listing page at a time.
// Every call is preceded by the source's politeness delay and calls must not
// be made concurrently.
type PagedSource interface {
	// FetchPage fetches the zero-based page pageIndex.
	FetchPage(ctx context.Context, pageIndex uint32) (*Page, error)

	// FetchSubItems returns every comment of the item, all pages flattened,
	// in tracker order.
	FetchSubItems(ctx context.Context, number int) ([]domain.SubItem, error)

	// PerPage returns the configured listing page size.
	PerPage() int
}

// Page is one listing page.
type Page struct {
	// Items are the summaries on this page, in listing order.
	Items []domain.ItemSummary

	// TotalPages is the page count reported alongside this page.
	TotalPages uint32
}

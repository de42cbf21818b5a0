package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/iterator"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// SyncIterator lazily walks a PagedSource and yields hydrated items.
//
// Pages are fetched on demand, one at a time, and never re-fetched. The
// iterator is forward-only: once it returns iterator.Done or an error it
// keeps returning that outcome. Resuming after a failure means building a
// new iterator from the persisted watermark.
type SyncIterator struct {
	source     driven.PagedSource
	progress   driven.ProgressReporter
	includePRs bool

	page       *driven.Page
	pageIndex  uint32
	offset     int
	totalPages uint32
	started    bool
	done       error
}

// NewSyncIterator creates an iterator over source. progress may be nil.
func NewSyncIterator(source driven.PagedSource, progress driven.ProgressReporter, includePRs bool) *SyncIterator {
	if progress == nil {
		progress = driven.NopProgress{}
	}
	return &SyncIterator{
		source:     source,
		progress:   progress,
		includePRs: includePRs,
	}
}

// Next returns the next hydrated item, or iterator.Done when the source is
// exhausted. An inconsistent listing page is reported as a
// *domain.ProtocolViolationError, never as iterator.Done.
func (it *SyncIterator) Next(ctx context.Context) (*domain.Item, error) {
	if it.done != nil {
		return nil, it.done
	}

	item, err := it.next(ctx)
	if err != nil {
		it.done = err
		if errors.Is(err, iterator.Done) {
			it.progress.Finish()
		}
		return nil, err
	}
	return item, nil
}

// TotalPages returns the page count reported with page 0, or 0 before the
// first call to Next.
func (it *SyncIterator) TotalPages() uint32 {
	return it.totalPages
}

// Estimate returns the approximate number of items in the sequence.
// It is an upper bound computed once from page 0: the last page may be only
// partly filled and pull requests may be skipped.
func (it *SyncIterator) Estimate() int {
	return int(it.totalPages) * it.source.PerPage()
}

func (it *SyncIterator) next(ctx context.Context) (*domain.Item, error) {
	if !it.started {
		if err := it.fetch(ctx, 0); err != nil {
			return nil, err
		}
		it.started = true
		logger.Debug("Listing reports %d pages (up to %d items)", it.totalPages, it.Estimate())
		it.progress.Start(it.Estimate())
	}

	for {
		if it.offset < len(it.page.Items) {
			summary := it.page.Items[it.offset]
			it.offset++

			if summary.IsPullRequest && !it.includePRs {
				logger.Debug("Skipping pull request #%d", summary.Number)
				continue
			}
			return it.hydrate(ctx, summary)
		}

		if it.pageIndex+1 >= it.totalPages {
			return nil, iterator.Done
		}
		if err := it.fetch(ctx, it.pageIndex+1); err != nil {
			return nil, err
		}
	}
}

// fetch loads page index and checks it against the pagination contract.
func (it *SyncIterator) fetch(ctx context.Context, index uint32) error {
	page, err := it.source.FetchPage(ctx, index)
	if err != nil {
		return fmt.Errorf("fetch page %d: %w", index, err)
	}

	total := it.totalPages
	if index == 0 {
		total = page.TotalPages
	} else if page.TotalPages < index+1 {
		return &domain.ProtocolViolationError{
			Page:       index,
			TotalPages: total,
			Reason:     fmt.Sprintf("page reports only %d pages", page.TotalPages),
		}
	}

	if len(page.Items) == 0 && index+1 < total {
		return &domain.ProtocolViolationError{
			Page:       index,
			TotalPages: total,
			Reason:     "non-final page is empty",
		}
	}

	logger.Debug("Fetched page %d/%d with %d items", index+1, total, len(page.Items))
	it.page = page
	it.pageIndex = index
	it.offset = 0
	it.totalPages = total
	return nil
}

// hydrate resolves the comments of one listing entry.
func (it *SyncIterator) hydrate(ctx context.Context, summary domain.ItemSummary) (*domain.Item, error) {
	it.progress.Advance(summary)

	subItems, err := it.source.FetchSubItems(ctx, summary.Number)
	if err != nil {
		return nil, fmt.Errorf("fetch comments for #%d: %w", summary.Number, err)
	}

	item := domain.NewItem(summary, subItems)
	return &item, nil
}

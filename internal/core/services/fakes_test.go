package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// fakeSource serves scripted listing pages and comments.
type fakeSource struct {
	mu       sync.Mutex
	pages    []driven.Page
	comments map[int][]domain.SubItem
	perPage  int

	pageErr    map[uint32]error
	commentErr map[int]error

	fetched       []uint32
	commentsFetch []int
}

func newFakeSource(perPage int, pages ...driven.Page) *fakeSource {
	return &fakeSource{
		pages:      pages,
		comments:   make(map[int][]domain.SubItem),
		perPage:    perPage,
		pageErr:    make(map[uint32]error),
		commentErr: make(map[int]error),
	}
}

func (f *fakeSource) FetchPage(_ context.Context, pageIndex uint32) (*driven.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, pageIndex)
	if err := f.pageErr[pageIndex]; err != nil {
		return nil, err
	}
	if int(pageIndex) >= len(f.pages) {
		return &driven.Page{TotalPages: uint32(len(f.pages))}, nil //nolint:gosec // test data
	}
	page := f.pages[pageIndex]
	return &page, nil
}

func (f *fakeSource) FetchSubItems(_ context.Context, number int) ([]domain.SubItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentsFetch = append(f.commentsFetch, number)
	if err := f.commentErr[number]; err != nil {
		return nil, err
	}
	return f.comments[number], nil
}

func (f *fakeSource) PerPage() int { return f.perPage }

func (f *fakeSource) fetchedPages() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.fetched...)
}

// fakeTracker hands out one scripted source per run and records the
// watermark each run asked for.
type fakeTracker struct {
	sources []*fakeSource
	since   []time.Time
}

func (t *fakeTracker) Source(since time.Time) driven.PagedSource {
	t.since = append(t.since, since)
	i := len(t.since) - 1
	if i >= len(t.sources) {
		return newFakeSource(100, driven.Page{TotalPages: 1})
	}
	return t.sources[i]
}

// recordingProgress captures progress callbacks.
type recordingProgress struct {
	estimate int
	started  int
	advanced []int
	finished int
}

func (p *recordingProgress) Start(estimate int) {
	p.started++
	p.estimate = estimate
}

func (p *recordingProgress) Advance(item domain.ItemSummary) {
	p.advanced = append(p.advanced, item.Number)
}

func (p *recordingProgress) Finish() { p.finished++ }

// summaries builds n consecutive listing entries starting at first.
func summaries(first, n int, base time.Time) []domain.ItemSummary {
	out := make([]domain.ItemSummary, n)
	for i := range out {
		num := first + i
		out[i] = domain.ItemSummary{
			ID:        uint64(1000 + num), //nolint:gosec // test data
			Number:    num,
			Title:     "issue",
			UpdatedAt: base.Add(time.Duration(num) * time.Second),
		}
	}
	return out
}

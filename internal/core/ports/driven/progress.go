package driven

import "github.com/custodia-labs/issuesync/internal/core/domain"

// ProgressReporter displays synchronisation progress.
type ProgressReporter interface {
	// Start is called once the first page is known. estimate is an upper
	// bound: the last page may be only partly filled.
	Start(estimate int)

	// Advance is called for every item produced.
	Advance(item domain.ItemSummary)

	// Finish is called when the sequence ends.
	Finish()
}

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) Start(int)                  {}
func (NopProgress) Advance(domain.ItemSummary) {}
func (NopProgress) Finish()                    {}

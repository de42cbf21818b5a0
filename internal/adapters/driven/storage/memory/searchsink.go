package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// Ensure SearchSink implements the interfaces.
var (
	_ driven.SearchSink       = (*SearchSink)(nil)
	_ driven.IndexProvisioner = (*SearchSink)(nil)
)

// SearchSink is an in-memory search index keyed by document ID.
type SearchSink struct {
	mu       sync.RWMutex
	docs     map[uint64]domain.Document
	calls    int
	provided bool

	// Err, when set, is returned by Upsert.
	Err error
}

// NewSearchSink creates a new in-memory search sink.
func NewSearchSink() *SearchSink {
	return &SearchSink{
		docs: make(map[uint64]domain.Document),
	}
}

// Upsert adds or replaces documents.
func (s *SearchSink) Upsert(_ context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return s.Err
	}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

// EnsureIndex marks the index as provisioned.
func (s *SearchSink) EnsureIndex(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provided = true
	return nil
}

// Document returns the stored document for id.
func (s *SearchSink) Document(id uint64) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return d, ok
}

// Len returns the number of stored documents.
func (s *SearchSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Calls returns how many times Upsert was invoked.
func (s *SearchSink) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// Provisioned reports whether EnsureIndex was called.
func (s *SearchSink) Provisioned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provided
}

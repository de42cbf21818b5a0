package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu      sync.RWMutex
	records map[uint64]domain.CheckpointRecord
	writes  int

	// Err, when set, is returned by every operation.
	Err error
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		records: make(map[uint64]domain.CheckpointRecord),
	}
}

// Watermark returns the greatest LastUpdateAt, or domain.BeginningOfTime.
func (s *CheckpointStore) Watermark(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return time.Time{}, s.Err
	}

	watermark := domain.BeginningOfTime
	for _, r := range s.records {
		if r.LastUpdateAt.After(watermark) {
			watermark = r.LastUpdateAt
		}
	}
	return watermark, nil
}

// Upsert stores or replaces a record.
func (s *CheckpointStore) Upsert(_ context.Context, record domain.CheckpointRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records[record.ID] = record
	s.writes++
	return nil
}

// Get retrieves a record by item ID.
func (s *CheckpointStore) Get(_ context.Context, id uint64) (*domain.CheckpointRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// Count returns the number of records.
func (s *CheckpointStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.records), nil
}

// Writes returns how many upserts succeeded.
func (s *CheckpointStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close is a no-op.
func (s *CheckpointStore) Close() error {
	return nil
}

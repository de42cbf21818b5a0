package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
	"github.com/custodia-labs/issuesync/internal/core/ports/driving"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// Ensure SyncService implements the interfaces.
var (
	_ driving.Synchronizer = (*SyncService)(nil)
	_ driving.StatusReader = (*SyncService)(nil)
)

// SyncService drives one synchronisation run: it reads the watermark,
// pulls items from a watermark-filtered source and commits each one to the
// search sink and then to the checkpoint store.
//
// Every item returned by the source is indexed and checkpointed. The stored
// fingerprint is never compared to skip work; correctness rests on the
// tracker's since filter and on both sinks being idempotent per item ID.
type SyncService struct {
	tracker     driven.Tracker
	checkpoints driven.CheckpointStore
	sink        driven.SearchSink
	runs        driven.RunStore
	progress    driven.ProgressReporter
	includePRs  bool

	now func() time.Time
}

// NewSyncService creates a sync service.
// runs and progress are optional and may be nil.
func NewSyncService(
	tracker driven.Tracker,
	checkpoints driven.CheckpointStore,
	sink driven.SearchSink,
	runs driven.RunStore,
	progress driven.ProgressReporter,
	includePRs bool,
) *SyncService {
	return &SyncService{
		tracker:     tracker,
		checkpoints: checkpoints,
		sink:        sink,
		runs:        runs,
		progress:    progress,
		includePRs:  includePRs,
		now:         time.Now,
	}
}

// Run synchronises every item updated at or after the stored watermark.
//
// The first failure aborts the run. Because an item's checkpoint is written
// only after its search document, the watermark never runs ahead of the
// index; the next run re-fetches from it inclusively, so the boundary item
// may be processed twice.
func (s *SyncService) Run(ctx context.Context) (*domain.SyncReport, error) {
	run := domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: s.now().UTC(),
		Status:    domain.RunRunning,
	}

	watermark, err := s.checkpoints.Watermark(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read watermark: %w", domain.ErrStore, err)
	}
	run.Watermark = watermark

	if err := s.saveRun(ctx, run); err != nil {
		return nil, err
	}

	logger.Info("Starting sync run %s from watermark %s", run.ID, watermark.Format(time.RFC3339))

	items := NewSyncIterator(s.tracker.Source(watermark), s.progress, s.includePRs)
	newWatermark := watermark

	for {
		item, err := items.Next(ctx)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, s.fail(ctx, &run, classifySourceError(err))
		}

		if err := s.commit(ctx, item); err != nil {
			return nil, s.fail(ctx, &run, err)
		}

		run.Items++
		if item.UpdatedAt.After(newWatermark) {
			newWatermark = item.UpdatedAt
		}
	}

	run.FinishedAt = s.now().UTC()
	run.Status = domain.RunSucceeded
	if err := s.saveRun(ctx, run); err != nil {
		return nil, err
	}

	report := &domain.SyncReport{
		RunID:        run.ID,
		Watermark:    watermark,
		NewWatermark: newWatermark,
		Items:        run.Items,
		Duration:     run.FinishedAt.Sub(run.StartedAt),
	}
	logger.Info("Sync complete: %d items in %s, watermark %s",
		report.Items, report.Duration.Round(time.Millisecond), newWatermark.Format(time.RFC3339))
	return report, nil
}

// Status returns the persisted synchronisation state.
func (s *SyncService) Status(ctx context.Context) (*driving.SyncStatus, error) {
	watermark, err := s.checkpoints.Watermark(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read watermark: %w", domain.ErrStore, err)
	}

	count, err := s.checkpoints.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count records: %w", domain.ErrStore, err)
	}

	status := &driving.SyncStatus{
		Watermark: watermark,
		Records:   count,
	}

	if s.runs != nil {
		last, err := s.runs.LastRun(ctx)
		switch {
		case err == nil:
			status.LastRun = last
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, fmt.Errorf("%w: read last run: %w", domain.ErrStore, err)
		}
	}

	return status, nil
}

// commit writes one item to the search sink, then records its checkpoint.
func (s *SyncService) commit(ctx context.Context, item *domain.Item) error {
	logger.Debug("Indexing issue #%d (id %d, %d comments)", item.Number, item.ID, len(item.SubItems))

	if err := s.sink.Upsert(ctx, []domain.Document{domain.Project(*item)}); err != nil {
		return classifySinkError(fmt.Errorf("index item %d: %w", item.ID, err))
	}

	record := domain.CheckpointRecord{
		ID:           item.ID,
		Fingerprint:  Fingerprint(*item),
		LastUpdateAt: item.UpdatedAt,
	}
	if err := s.checkpoints.Upsert(ctx, record); err != nil {
		return fmt.Errorf("%w: checkpoint item %d: %w", domain.ErrStore, item.ID, err)
	}
	return nil
}

// fail records the failed run and returns err. Recording is best effort and
// survives a cancelled context.
func (s *SyncService) fail(ctx context.Context, run *domain.SyncRun, err error) error {
	run.FinishedAt = s.now().UTC()
	run.Status = domain.RunFailed
	run.Error = err.Error()

	if s.runs != nil {
		if saveErr := s.runs.SaveRun(context.WithoutCancel(ctx), *run); saveErr != nil {
			logger.Warn("Failed to record run %s: %v", run.ID, saveErr)
		}
	}

	logger.Error("Sync run %s failed after %d items: %v", run.ID, run.Items, err)
	return err
}

func (s *SyncService) saveRun(ctx context.Context, run domain.SyncRun) error {
	if s.runs == nil {
		return nil
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("%w: record run: %w", domain.ErrStore, err)
	}
	return nil
}

// classifySourceError tags tracker failures as transport errors unless they
// already carry a more specific classification.
func classifySourceError(err error) error {
	if errors.Is(err, domain.ErrUpstreamProtocolViolation) || isCancellation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransport, err)
}

// classifySinkError keeps sink rejections distinct from transport failures.
func classifySinkError(err error) error {
	if errors.Is(err, domain.ErrSinkRejected) || isCancellation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransport, err)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package meilisearch

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// Ensure Sink implements the interfaces.
var (
	_ driven.SearchSink       = (*Sink)(nil)
	_ driven.IndexProvisioner = (*Sink)(nil)
)

// PrimaryKey is the document attribute Meilisearch keys on.
const PrimaryKey = "id"

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"

	codeIndexAlreadyExists = "index_already_exists"

	pollInterval = 50 * time.Millisecond
)

// RankingRules orders matches by relevance, then by the "rank" attribute.
var RankingRules = []string{
	"words",
	"typo",
	"rank:desc",
	"proximity",
	"attribute",
	"sort",
	"exactness",
}

// SearchableAttributes lists the attributes queries match against.
var SearchableAttributes = []string{"id", "title", "body", "comments"}

// Sink writes documents to one Meilisearch index.
type Sink struct {
	index       indexAPI
	uid         string
	taskTimeout time.Duration
}

// NewSink creates a sink for the configured index.
func NewSink(settings domain.SearchSettings) *Sink {
	timeout := settings.TaskTimeout
	if timeout <= 0 {
		timeout = domain.DefaultTaskTimeout
	}
	return &Sink{
		index:       newSDKIndex(settings.URL, settings.APIKey, settings.Index, timeout),
		uid:         settings.Index,
		taskTimeout: timeout,
	}
}

// Upsert adds or replaces documents and waits for the write task.
func (s *Sink) Upsert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	taskUID, err := s.index.AddDocuments(docs, PrimaryKey)
	if err != nil {
		return fmt.Errorf("add documents to %s: %w", s.uid, err)
	}

	return s.await(ctx, taskUID, "add documents")
}

// EnsureIndex creates the index with the "id" primary key and applies its
// ranking and searchable attribute settings. An existing index is kept.
func (s *Sink) EnsureIndex(ctx context.Context) error {
	taskUID, err := s.index.CreateIndex(PrimaryKey)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.uid, err)
	}

	outcome, err := s.wait(ctx, taskUID)
	if err != nil {
		return err
	}
	switch {
	case outcome.Status == statusSucceeded:
		logger.Info("Created search index %s", s.uid)
	case outcome.Code == codeIndexAlreadyExists:
		logger.Debug("Search index %s already exists", s.uid)
	default:
		return rejection(outcome)
	}

	taskUID, err = s.index.UpdateSettings(RankingRules, SearchableAttributes)
	if err != nil {
		return fmt.Errorf("update settings of %s: %w", s.uid, err)
	}
	return s.await(ctx, taskUID, "update settings")
}

// await waits for a task and converts a failed outcome into a rejection.
func (s *Sink) await(ctx context.Context, taskUID int64, operation string) error {
	outcome, err := s.wait(ctx, taskUID)
	if err != nil {
		return err
	}
	if outcome.Status != statusSucceeded {
		logger.With("index", s.uid, "task", taskUID, "code", outcome.Code).
			Error(operation+" rejected", "message", outcome.Message)
		return rejection(outcome)
	}
	return nil
}

func (s *Sink) wait(ctx context.Context, taskUID int64) (*taskOutcome, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.taskTimeout)
	defer cancel()

	outcome, err := s.index.WaitForTask(waitCtx, taskUID, pollInterval)
	if err != nil {
		return nil, fmt.Errorf("wait for task %d on %s: %w", taskUID, s.uid, err)
	}
	return outcome, nil
}

func rejection(o *taskOutcome) error {
	msg := o.Message
	if msg == "" {
		msg = "task ended with status " + o.Status
	}
	return &domain.SinkRejectionError{
		TaskID:  o.UID,
		Code:    o.Code,
		Type:    o.Type,
		Message: msg,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/issuesync/internal/adapters/driven/progress"
	"github.com/custodia-labs/issuesync/internal/adapters/driven/search/meilisearch"
	"github.com/custodia-labs/issuesync/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/issuesync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/issuesync/internal/adapters/driving/cli"
	"github.com/custodia-labs/issuesync/internal/connectors/github"
	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
	"github.com/custodia-labs/issuesync/internal/core/services"
	"github.com/custodia-labs/issuesync/internal/logger"
)

// stateStore persists checkpoints and the run history.
type stateStore interface {
	driven.CheckpointStore
	driven.RunStore
}

// buildApp wires the adapters selected by settings into the sync service.
func buildApp(ctx context.Context, settings domain.AppSettings) (*cli.App, error) {
	store, err := openStore(ctx, settings.Checkpoint)
	if err != nil {
		return nil, err
	}
	logger.Debug("Checkpoint store: %s at %s", settings.Checkpoint.Driver.Description(), settings.Checkpoint.DSN)

	tracker, err := newTracker(settings.Tracker)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sink := meilisearch.NewSink(settings.Search)
	svc := services.NewSyncService(
		tracker,
		store,
		sink,
		store,
		progress.NewReporter(os.Stderr),
		settings.Tracker.IncludePullRequests,
	)

	return &cli.App{
		Synchronizer: svc,
		Status:       svc,
		Index:        sink,
		Close:        store.Close,
	}, nil
}

// openStore opens the checkpoint backend named by the driver.
func openStore(ctx context.Context, cfg domain.CheckpointSettings) (stateStore, error) {
	switch cfg.Driver {
	case domain.CheckpointDriverSQLite:
		store, err := sqlite.NewStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return store, nil
	case domain.CheckpointDriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: checkpoint driver %q", domain.ErrUnsupportedType, cfg.Driver)
	}
}

// newTracker builds the GitHub tracker. The API client is created on first
// use, so a missing token only fails commands that reach GitHub.
func newTracker(s domain.TrackerSettings) (driven.Tracker, error) {
	cfg, err := github.ConfigFromSettings(s)
	if err != nil {
		if errors.Is(err, github.ErrRepoRequired) {
			// status works without a repository.
			cfg = &github.Config{PerPage: github.MaxPerPage, RequestDelay: s.RequestDelay, BaseURL: s.BaseURL}
		} else {
			return nil, err
		}
	}
	client := github.NewClient(driven.StaticTokenProvider{Token: s.Token}, cfg.BaseURL, cfg.RequestDelay)
	return github.NewTracker(client, cfg), nil
}

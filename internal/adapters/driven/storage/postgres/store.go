package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/custodia-labs/issuesync/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.CheckpointStore = (*Store)(nil)
	_ driven.RunStore        = (*Store)(nil)
)

// Store is a PostgreSQL-backed checkpoint and run store.
type Store struct {
	db *sqlx.DB
}

type checkpointRow struct {
	ID           int64     `db:"id"`
	Fingerprint  int64     `db:"fingerprint"`
	LastUpdateAt time.Time `db:"last_update_at"`
}

type runRow struct {
	ID         string       `db:"id"`
	StartedAt  time.Time    `db:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
	Watermark  time.Time    `db:"watermark"`
	Items      int          `db:"items"`
	Status     string       `db:"status"`
	Error      string       `db:"error"`
}

// NewStore connects to dsn and applies pending migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := NewStoreWithDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an open connection and applies pending migrations.
func NewStoreWithDB(ctx context.Context, db *sqlx.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.GetContext(ctx, &current, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}
	return nil
}

// Watermark returns the greatest last_update_at, or domain.BeginningOfTime.
func (s *Store) Watermark(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	if err := s.db.GetContext(ctx, &latest, "SELECT MAX(last_update_at) FROM checkpoints"); err != nil {
		return time.Time{}, fmt.Errorf("reading watermark: %w", err)
	}
	if !latest.Valid {
		return domain.BeginningOfTime, nil
	}
	return latest.Time.UTC(), nil
}

// Upsert stores or replaces the record for an item.
func (s *Store) Upsert(ctx context.Context, record domain.CheckpointRecord) error {
	query := `
		INSERT INTO checkpoints (id, fingerprint, last_update_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			last_update_at = EXCLUDED.last_update_at`

	_, err := s.db.ExecContext(ctx, query,
		domain.StorageID(record.ID),
		record.Fingerprint,
		record.LastUpdateAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving checkpoint %d: %w", record.ID, err)
	}
	return nil
}

// Get retrieves the record for an item.
func (s *Store) Get(ctx context.Context, id uint64) (*domain.CheckpointRecord, error) {
	var row checkpointRow
	query := `
		SELECT id, fingerprint, last_update_at
		FROM checkpoints
		WHERE id = $1`

	err := s.db.GetContext(ctx, &row, query, domain.StorageID(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %d: %w", id, err)
	}

	return &domain.CheckpointRecord{
		ID:           domain.ItemID(row.ID),
		Fingerprint:  row.Fingerprint,
		LastUpdateAt: row.LastUpdateAt.UTC(),
	}, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM checkpoints"); err != nil {
		return 0, fmt.Errorf("counting checkpoints: %w", err)
	}
	return count, nil
}

// SaveRun inserts or updates a run record.
func (s *Store) SaveRun(ctx context.Context, run domain.SyncRun) error {
	row := runRow{
		ID:        run.ID,
		StartedAt: run.StartedAt.UTC(),
		Watermark: run.Watermark.UTC(),
		Items:     run.Items,
		Status:    string(run.Status),
		Error:     run.Error,
	}
	if !run.FinishedAt.IsZero() {
		row.FinishedAt = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	query := `
		INSERT INTO sync_runs (id, started_at, finished_at, watermark, items, status, error)
		VALUES (:id, :started_at, :finished_at, :watermark, :items, :status, :error)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			items = EXCLUDED.items,
			status = EXCLUDED.status,
			error = EXCLUDED.error`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// LastRun returns the most recently started run.
func (s *Store) LastRun(ctx context.Context) (*domain.SyncRun, error) {
	var row runRow
	query := `
		SELECT id, started_at, finished_at, watermark, items, status, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1`

	err := s.db.GetContext(ctx, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}

	run := &domain.SyncRun{
		ID:        row.ID,
		StartedAt: row.StartedAt.UTC(),
		Watermark: row.Watermark.UTC(),
		Items:     row.Items,
		Status:    domain.RunStatus(row.Status),
		Error:     row.Error,
	}
	if row.FinishedAt.Valid {
		run.FinishedAt = row.FinishedAt.Time.UTC()
	}
	return run, nil
}

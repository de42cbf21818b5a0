package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/issuesync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/issuesync/internal/core/domain"
	"github.com/custodia-labs/issuesync/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.CheckpointStore = (*Store)(nil)
	_ driven.RunStore        = (*Store)(nil)
)

// Store is a SQLite-backed checkpoint and run store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if absent) the database file at path and
// applies pending migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_checkpoints.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// ==================== Checkpoints ====================

// Watermark returns the greatest last_update_at, or domain.BeginningOfTime
// when no item has been synced.
func (s *Store) Watermark(ctx context.Context) (time.Time, error) {
	var latest sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(last_update_at) FROM checkpoints").Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading watermark: %w", err)
	}
	if !latest.Valid {
		return domain.BeginningOfTime, nil
	}
	return fromUnixNano(latest.Int64), nil
}

// Upsert stores or replaces the record for an item.
func (s *Store) Upsert(ctx context.Context, record domain.CheckpointRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, fingerprint, last_update_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			last_update_at = excluded.last_update_at
	`, domain.StorageID(record.ID), record.Fingerprint, record.LastUpdateAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving checkpoint %d: %w", record.ID, err)
	}
	return nil
}

// Get retrieves the record for an item.
func (s *Store) Get(ctx context.Context, id uint64) (*domain.CheckpointRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, last_update_at
		FROM checkpoints WHERE id = ?
	`, domain.StorageID(id))

	var (
		stored     int64
		record     domain.CheckpointRecord
		lastUpdate int64
	)
	if err := row.Scan(&stored, &record.Fingerprint, &lastUpdate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning checkpoint: %w", err)
	}

	record.ID = domain.ItemID(stored)
	record.LastUpdateAt = fromUnixNano(lastUpdate)
	return &record, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM checkpoints").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting checkpoints: %w", err)
	}
	return count, nil
}

// ==================== Runs ====================

// SaveRun inserts or updates a run record.
func (s *Store) SaveRun(ctx context.Context, run domain.SyncRun) error {
	var finished sql.NullInt64
	if !run.FinishedAt.IsZero() {
		finished = sql.NullInt64{Int64: run.FinishedAt.UnixNano(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, finished_at, watermark, items, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			items = excluded.items,
			status = excluded.status,
			error = excluded.error
	`, run.ID, run.StartedAt.UnixNano(), finished, run.Watermark.UnixNano(),
		run.Items, string(run.Status), run.Error)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// LastRun returns the most recently started run.
func (s *Store) LastRun(ctx context.Context) (*domain.SyncRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, watermark, items, status, error
		FROM sync_runs ORDER BY started_at DESC, rowid DESC LIMIT 1
	`)

	var (
		run       domain.SyncRun
		started   int64
		finished  sql.NullInt64
		watermark int64
		status    string
	)
	err := row.Scan(&run.ID, &started, &finished, &watermark, &run.Items, &status, &run.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.StartedAt = fromUnixNano(started)
	if finished.Valid {
		run.FinishedAt = fromUnixNano(finished.Int64)
	}
	run.Watermark = fromUnixNano(watermark)
	run.Status = domain.RunStatus(status)
	return &run, nil
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

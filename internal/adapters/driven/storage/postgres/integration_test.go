//go:build integration

package postgres

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *sqlx.DB
	store     *Store
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("issuesync"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	store, err := NewStoreWithDB(s.ctx, db)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM checkpoints")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sync_runs")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

var t1 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (s *PostgresIntegrationSuite) TestMigrationsAreIdempotent() {
	_, err := NewStoreWithDB(s.ctx, s.db)
	s.NoError(err)

	var version int
	s.NoError(s.db.GetContext(s.ctx, &version, "SELECT MAX(version) FROM schema_migrations"))
	s.Equal(2, version)
}

func (s *PostgresIntegrationSuite) TestWatermark_Empty() {
	watermark, err := s.store.Watermark(s.ctx)
	s.NoError(err)
	s.True(watermark.Equal(domain.BeginningOfTime))
}

func (s *PostgresIntegrationSuite) TestUpsert_Overwrites() {
	s.NoError(s.store.Upsert(s.ctx, domain.CheckpointRecord{ID: 42, Fingerprint: 1, LastUpdateAt: t1}))
	s.NoError(s.store.Upsert(s.ctx, domain.CheckpointRecord{ID: 42, Fingerprint: -2, LastUpdateAt: t1.Add(time.Hour)}))

	count, err := s.store.Count(s.ctx)
	s.NoError(err)
	s.Equal(1, count)

	got, err := s.store.Get(s.ctx, 42)
	s.NoError(err)
	s.Equal(int64(-2), got.Fingerprint)
	s.True(got.LastUpdateAt.Equal(t1.Add(time.Hour)))

	watermark, err := s.store.Watermark(s.ctx)
	s.NoError(err)
	s.True(watermark.Equal(t1.Add(time.Hour)))
}

func (s *PostgresIntegrationSuite) TestGet_NotFound() {
	_, err := s.store.Get(s.ctx, 7)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestUpsert_FullIDRange() {
	ids := []uint64{math.MaxUint64, uint64(math.MaxInt64) + 1, 1}
	for _, id := range ids {
		s.NoError(s.store.Upsert(s.ctx, domain.CheckpointRecord{ID: id, LastUpdateAt: t1}))
	}
	for _, id := range ids {
		got, err := s.store.Get(s.ctx, id)
		s.NoError(err)
		s.Equal(id, got.ID)
	}
}

func (s *PostgresIntegrationSuite) TestRuns() {
	_, err := s.store.LastRun(s.ctx)
	s.ErrorIs(err, domain.ErrNotFound)

	run := domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: t1,
		Watermark: domain.BeginningOfTime,
		Status:    domain.RunRunning,
	}
	s.NoError(s.store.SaveRun(s.ctx, run))

	run.FinishedAt = t1.Add(time.Minute)
	run.Items = 3
	run.Status = domain.RunSucceeded
	s.NoError(s.store.SaveRun(s.ctx, run))

	got, err := s.store.LastRun(s.ctx)
	s.NoError(err)
	s.Equal(run.ID, got.ID)
	s.Equal(domain.RunSucceeded, got.Status)
	s.Equal(3, got.Items)
	s.True(got.FinishedAt.Equal(t1.Add(time.Minute)))
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

func TestCheckpointStore_WatermarkEmpty(t *testing.T) {
	store := NewCheckpointStore()

	watermark, err := store.Watermark(context.Background())
	require.NoError(t, err)
	assert.True(t, watermark.Equal(domain.BeginningOfTime))
}

func TestCheckpointStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	require.NoError(t, store.Upsert(ctx, domain.CheckpointRecord{ID: 42, Fingerprint: 1, LastUpdateAt: t1}))
	require.NoError(t, store.Upsert(ctx, domain.CheckpointRecord{ID: 42, Fingerprint: 2, LastUpdateAt: t2}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Fingerprint)
	assert.True(t, got.LastUpdateAt.Equal(t2))
	assert.Equal(t, 2, store.Writes())
}

func TestCheckpointStore_WatermarkIsMaximum(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, domain.CheckpointRecord{ID: 1, LastUpdateAt: t1.Add(2 * time.Hour)}))
	require.NoError(t, store.Upsert(ctx, domain.CheckpointRecord{ID: 2, LastUpdateAt: t1}))

	watermark, err := store.Watermark(ctx)
	require.NoError(t, err)
	assert.True(t, watermark.Equal(t1.Add(2*time.Hour)))
}

func TestCheckpointStore_GetNotFound(t *testing.T) {
	_, err := NewCheckpointStore().Get(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckpointStore_InjectedError(t *testing.T) {
	store := NewCheckpointStore()
	store.Err = errors.New("disk full")

	err := store.Upsert(context.Background(), domain.CheckpointRecord{ID: 1})
	require.Error(t, err)
	_, err = store.Watermark(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, store.Writes())
}

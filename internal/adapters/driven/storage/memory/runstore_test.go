package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

func TestRunStore_LastRunEmpty(t *testing.T) {
	_, err := NewRunStore().LastRun(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_SaveRunUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewRunStore()

	require.NoError(t, store.SaveRun(ctx, domain.SyncRun{ID: "a", Status: domain.RunRunning}))
	require.NoError(t, store.SaveRun(ctx, domain.SyncRun{ID: "b", Status: domain.RunRunning}))
	require.NoError(t, store.SaveRun(ctx, domain.SyncRun{ID: "a", Status: domain.RunSucceeded}))

	runs := store.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, domain.RunSucceeded, runs[0].Status)

	last, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", last.ID)
}

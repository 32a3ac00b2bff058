package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *RunRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "runs", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunRepository(db)
}

func TestAppendAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	id, err := repo.Append(ctx, RunRecord{SimulationID: "dual", NumTrains: 2, Ticks: 3600, Elapsed: 3600, HourlyCapacity: 540})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	_, err = repo.Append(ctx, RunRecord{SimulationID: "dual", NumTrains: 1, Ticks: 3600, Elapsed: 3600, HourlyCapacity: 300})
	require.NoError(t, err)
	_, err = repo.Append(ctx, RunRecord{SimulationID: "other", NumTrains: 1, Ticks: 10, Elapsed: 10})
	require.NoError(t, err)

	runs, err := repo.GetBySimulationID(ctx, "dual")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 1, runs[0].NumTrains)
	assert.Equal(t, 2, runs[1].NumTrains)
	assert.Equal(t, id, runs[1].RunID)
	assert.False(t, runs[1].CreatedAt.IsZero())
}

func TestBestOperableSkipsHalts(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for _, rec := range []RunRecord{
		{SimulationID: "dual", NumTrains: 1, HourlyCapacity: 300},
		{SimulationID: "dual", NumTrains: 2, HourlyCapacity: 540},
		{SimulationID: "dual", NumTrains: 3, HourlyCapacity: 700, HaltKind: "gridlock"},
	} {
		_, err := repo.Append(ctx, rec)
		require.NoError(t, err)
	}

	best, err := repo.BestOperable(ctx, "dual")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 2, best.NumTrains)

	none, err := repo.BestOperable(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

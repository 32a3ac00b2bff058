package capacity

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/block-circuit/internal/circuit"
	"github.com/cxd309/block-circuit/internal/storage"
)

func TestRecordCarriesHalt(t *testing.T) {
	cfg := dualStationConfig()
	cfg.Options.RandomSeed = 10
	r := Result{NumTrains: 5, Halt: &circuit.Halt{Kind: circuit.HaltOperational, Train: "train 2", Block: "lift 1", Time: 90}}
	r.Summary.Elapsed = 90

	rec := Record("dual", cfg, r)
	assert.Equal(t, "dual", rec.SimulationID)
	assert.Equal(t, 5, rec.NumTrains)
	assert.Equal(t, int64(10), rec.RandomSeed)
	assert.Equal(t, 3600, rec.Ticks)
	assert.Equal(t, 90, rec.Elapsed)
	assert.Equal(t, "operational", rec.HaltKind)
	assert.Equal(t, "train 2", rec.HaltTrain)
	assert.Equal(t, "lift 1", rec.HaltBlock)
}

func TestSaveSweep(t *testing.T) {
	ctx := context.Background()
	db, err := storage.InitSQLite(filepath.Join(t.TempDir(), "sweep.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := storage.NewRunRepository(db)

	cfg := dualStationConfig()
	cfg.MaxTrains = 2
	results, err := Sweep(ctx, cfg, nil)
	require.NoError(t, err)

	ids, err := Save(ctx, repo, "dual", cfg, results)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	best, err := repo.BestOperable(ctx, "dual")
	require.NoError(t, err)
	require.NotNil(t, best)
	want, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, want.NumTrains, best.NumTrains)
}

package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/block-circuit/internal/capacity"
	"github.com/cxd309/block-circuit/internal/circuit"
	"github.com/cxd309/block-circuit/internal/layout"
	"github.com/cxd309/block-circuit/internal/storage"
)

func TestRecordSweepAccumulatesRuns(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "results", "runs.db")
	cfg := capacity.Config{
		Layout:         layout.DualStation(),
		Options:        circuit.Options{CircuitCompletionBlocks: []string{"station 1", "station 2"}},
		Ticks:          1800,
		RidersPerTrain: 24,
		MaxTrains:      2,
	}
	results, err := capacity.Sweep(ctx, cfg, nil)
	require.NoError(t, err)

	logger := log.New(io.Discard)
	require.NoError(t, recordSweep(ctx, logger, dbPath, "dual", cfg, results))
	require.NoError(t, recordSweep(ctx, logger, dbPath, "dual", cfg, results))

	// The database must be closed and reopenable after each call.
	db, err := storage.InitSQLite(dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := storage.NewRunRepository(db).GetBySimulationID(ctx, "dual")
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestRecordSweepBadPath(t *testing.T) {
	dir := t.TempDir()
	err := recordSweep(context.Background(), log.New(io.Discard), dir, "dual", capacity.Config{}, nil)
	assert.Error(t, err, "a directory is not a database file")
}

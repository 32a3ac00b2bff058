package capacity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/block-circuit/internal/circuit"
	"github.com/cxd309/block-circuit/internal/layout"
)

func dualStationConfig() Config {
	return Config{
		Layout: layout.DualStation(),
		Options: circuit.Options{
			CircuitCompletionBlocks: []string{"station 1", "station 2"},
		},
		Ticks:          3600,
		RidersPerTrain: 24,
	}
}

func TestSweepCoversEveryTrainCount(t *testing.T) {
	results, err := Sweep(context.Background(), dualStationConfig(), nil)
	require.NoError(t, err)
	require.Len(t, results, 7)

	for i, r := range results {
		assert.Equal(t, i+1, r.NumTrains)
		assert.Len(t, r.Summary.Trains, i+1)
	}
	assert.True(t, results[0].Operable())
	assert.True(t, results[1].Operable())
	assert.Positive(t, results[0].Summary.HourlyCapacity)
}

func TestSweepMaxTrains(t *testing.T) {
	cfg := dualStationConfig()
	cfg.MaxTrains = 2
	results, err := Sweep(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSweepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := Sweep(ctx, dualStationConfig(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestSweepRejectsInvalidLayout(t *testing.T) {
	cfg := dualStationConfig()
	cfg.Layout.Blocks[6].NextBlock = "gravity 1"
	_, err := Sweep(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, layout.ErrInvalidSplitter)
}

func TestBest(t *testing.T) {
	results := []Result{
		{NumTrains: 1},
		{NumTrains: 2},
		{NumTrains: 3, Halt: &circuit.Halt{Kind: circuit.HaltGridlock}},
	}
	results[0].Summary.HourlyCapacity = 300
	results[1].Summary.HourlyCapacity = 540
	results[2].Summary.HourlyCapacity = 900

	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, 2, best.NumTrains)

	_, ok = Best(results[2:])
	assert.False(t, ok)
}

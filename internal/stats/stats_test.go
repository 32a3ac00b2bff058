package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/block-circuit/internal/train"
)

func TestSummarise(t *testing.T) {
	trains := []train.Train{
		{Name: "train 0", TotalSecondsHeld: 360, CircuitsCompleted: 10},
		{Name: "train 1", TotalSecondsHeld: 0, CircuitsCompleted: 8},
	}

	s := Summarise(trains, 3600, 24)

	require.Len(t, s.Trains, 2)
	assert.InDelta(t, 10.0, s.Trains[0].IdlePercent, 1e-9)
	assert.InDelta(t, 0.0, s.Trains[1].IdlePercent, 1e-9)
	assert.InDelta(t, 9.0, s.AvgCircuits, 1e-9)
	assert.InDelta(t, 9.0, s.AvgCircuitsPerHour, 1e-9)
	assert.InDelta(t, 18.0, s.TotalCircuitsPerHour, 1e-9)
	assert.InDelta(t, 432.0, s.HourlyCapacity, 1e-9)
}

func TestSummariseScalesToHour(t *testing.T) {
	s := Summarise([]train.Train{{Name: "train 0", CircuitsCompleted: 5}}, 1800, 10)
	assert.InDelta(t, 10.0, s.AvgCircuitsPerHour, 1e-9)
	assert.InDelta(t, 100.0, s.HourlyCapacity, 1e-9)
}

func TestSummariseNothingElapsed(t *testing.T) {
	s := Summarise([]train.Train{{Name: "train 0", CircuitsCompleted: 1}}, 0, 24)
	assert.Zero(t, s.AvgCircuitsPerHour)
	assert.Zero(t, s.HourlyCapacity)
	assert.Zero(t, s.Trains[0].IdlePercent)

	empty := Summarise(nil, 100, 24)
	assert.Empty(t, empty.Trains)
	assert.Zero(t, empty.AvgCircuits)
}

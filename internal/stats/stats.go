// Package stats turns per-train counters into throughput and idle-time figures.
package stats

import "github.com/cxd309/block-circuit/internal/train"

const secondsPerHour = 3600

// TrainStats are the figures for one train.
type TrainStats struct {
	Name              string  `json:"name"`
	TotalSecondsHeld  int     `json:"total_seconds_held"`
	CircuitsCompleted int     `json:"circuits_completed"`
	IdlePercent       float64 `json:"idle_percent"` // share of elapsed time spent held
}

// Summary aggregates a run.
type Summary struct {
	Elapsed              int          `json:"elapsed"` // seconds
	Trains               []TrainStats `json:"trains"`
	AvgCircuits          float64      `json:"avg_circuits"`
	AvgCircuitsPerHour   float64      `json:"avg_circuits_per_hour"`
	TotalCircuitsPerHour float64      `json:"total_circuits_per_hour"`
	RidersPerTrain       int          `json:"riders_per_train,omitempty"`
	HourlyCapacity       float64      `json:"hourly_capacity"` // riders per hour
}

// Summarise computes the summary for trains after elapsed seconds.
// Rates are zero when nothing has elapsed.
func Summarise(trains []train.Train, elapsed, ridersPerTrain int) Summary {
	s := Summary{
		Elapsed:        elapsed,
		Trains:         make([]TrainStats, len(trains)),
		RidersPerTrain: ridersPerTrain,
	}
	if len(trains) == 0 {
		return s
	}

	laps := 0
	for i, t := range trains {
		ts := TrainStats{
			Name:              t.Name,
			TotalSecondsHeld:  t.TotalSecondsHeld,
			CircuitsCompleted: t.CircuitsCompleted,
		}
		if elapsed > 0 {
			ts.IdlePercent = 100 * float64(t.TotalSecondsHeld) / float64(elapsed)
		}
		s.Trains[i] = ts
		laps += t.CircuitsCompleted
	}

	s.AvgCircuits = float64(laps) / float64(len(trains))
	if elapsed > 0 {
		s.AvgCircuitsPerHour = s.AvgCircuits * secondsPerHour / float64(elapsed)
		s.TotalCircuitsPerHour = s.AvgCircuitsPerHour * float64(len(trains))
		s.HourlyCapacity = float64(ridersPerTrain) * s.TotalCircuitsPerHour
	}
	return s
}

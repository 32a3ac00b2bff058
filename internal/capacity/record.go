package capacity

import (
	"context"

	"github.com/cxd309/block-circuit/internal/storage"
)

// Record converts a sweep result into a stored run summary.
func Record(simulationID string, cfg Config, r Result) storage.RunRecord {
	rec := storage.RunRecord{
		SimulationID:       simulationID,
		NumTrains:          r.NumTrains,
		Ticks:              cfg.Ticks,
		RandomSeed:         cfg.Options.RandomSeed,
		Sluggishness:       cfg.Options.Sluggishness,
		Elapsed:            r.Summary.Elapsed,
		AvgCircuitsPerHour: r.Summary.AvgCircuitsPerHour,
		HourlyCapacity:     r.Summary.HourlyCapacity,
	}
	if h := r.Halt; h != nil {
		rec.HaltKind = string(h.Kind)
		rec.HaltTrain = h.Train
		rec.HaltBlock = h.Block
	}
	return rec
}

// Save appends every result of a sweep and returns the new run ids in order.
func Save(ctx context.Context, repo *storage.RunRepository, simulationID string, cfg Config, results []Result) ([]string, error) {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		id, err := repo.Append(ctx, Record(simulationID, cfg, r))
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is the stored summary of one simulation run.
type RunRecord struct {
	RunID              string    `json:"run_id" db:"run_id"`
	SimulationID       string    `json:"simulation_id" db:"simulation_id"`
	NumTrains          int       `json:"num_trains" db:"num_trains"`
	Ticks              int       `json:"ticks" db:"ticks"`
	RandomSeed         int64     `json:"random_seed" db:"random_seed"`
	Sluggishness       bool      `json:"sluggishness" db:"sluggishness"`
	Elapsed            int       `json:"elapsed" db:"elapsed"`
	HaltKind           string    `json:"halt_kind" db:"halt_kind"` // empty when the run completed
	HaltTrain          string    `json:"halt_train" db:"halt_train"`
	HaltBlock          string    `json:"halt_block" db:"halt_block"`
	AvgCircuitsPerHour float64   `json:"avg_circuits_per_hour" db:"avg_circuits_per_hour"`
	HourlyCapacity     float64   `json:"hourly_capacity" db:"hourly_capacity"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// RunRepository stores run summaries in SQLite.
type RunRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db, now: time.Now}
}

// Append stores rec, assigning a RunID and CreatedAt if unset. It returns the RunID.
func (r *RunRepository) Append(ctx context.Context, rec RunRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	query := `
		INSERT INTO runs (run_id, simulation_id, num_trains, ticks, random_seed, sluggishness, elapsed,
			halt_kind, halt_train, halt_block, avg_circuits_per_hour, hourly_capacity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.RunID, rec.SimulationID, rec.NumTrains, rec.Ticks, rec.RandomSeed, rec.Sluggishness, rec.Elapsed,
		rec.HaltKind, rec.HaltTrain, rec.HaltBlock, rec.AvgCircuitsPerHour, rec.HourlyCapacity, rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to append run: %w", err)
	}
	return rec.RunID, nil
}

// GetBySimulationID returns every run of a simulation ordered by train count.
func (r *RunRepository) GetBySimulationID(ctx context.Context, simulationID string) ([]RunRecord, error) {
	query := `
		SELECT run_id, simulation_id, num_trains, ticks, random_seed, sluggishness, elapsed,
			halt_kind, halt_train, halt_block, avg_circuits_per_hour, hourly_capacity, created_at
		FROM runs WHERE simulation_id = ? ORDER BY num_trains, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, simulationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		err := rows.Scan(
			&rec.RunID, &rec.SimulationID, &rec.NumTrains, &rec.Ticks, &rec.RandomSeed, &rec.Sluggishness,
			&rec.Elapsed, &rec.HaltKind, &rec.HaltTrain, &rec.HaltBlock, &rec.AvgCircuitsPerHour,
			&rec.HourlyCapacity, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// BestOperable returns the completed run with the highest hourly capacity.
func (r *RunRepository) BestOperable(ctx context.Context, simulationID string) (*RunRecord, error) {
	runs, err := r.GetBySimulationID(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	var best *RunRecord
	for i := range runs {
		if runs[i].HaltKind != "" {
			continue
		}
		if best == nil || runs[i].HourlyCapacity > best.HourlyCapacity {
			best = &runs[i]
		}
	}
	return best, nil
}

// Package capacity answers the planning question of how many trains a layout
// can run: it simulates every train count the layout can hold and reports
// throughput or the halt that ended the run.
package capacity

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cxd309/block-circuit/internal/circuit"
	"github.com/cxd309/block-circuit/internal/layout"
	"github.com/cxd309/block-circuit/internal/stats"
)

// Config describes a sweep.
type Config struct {
	Layout         layout.Layout
	Options        circuit.Options
	Ticks          int
	RidersPerTrain int
	// MaxTrains caps the sweep; zero means every operable block.
	MaxTrains int
}

// Result is the outcome for one train count. Halt is nil when the run
// lasted every tick.
type Result struct {
	NumTrains int           `json:"num_trains"`
	Halt      *circuit.Halt `json:"halt,omitempty"`
	Summary   stats.Summary `json:"summary"`
}

// Operable reports whether the train count ran without halting.
func (r Result) Operable() bool { return r.Halt == nil }

// Sweep runs a fresh circuit for each train count from 1 upwards.
func Sweep(ctx context.Context, cfg Config, logger *log.Logger) ([]Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	maxTrains := len(cfg.Layout.Operable())
	if cfg.MaxTrains > 0 && cfg.MaxTrains < maxTrains {
		maxTrains = cfg.MaxTrains
	}

	results := make([]Result, 0, maxTrains)
	for n := 1; n <= maxTrains; n++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := runOne(cfg, n)
		if err != nil {
			return results, fmt.Errorf("%d trains: %w", n, err)
		}
		if res.Operable() {
			logger.Info("train count operable", "trains", n, "capacity", res.Summary.HourlyCapacity)
		} else {
			logger.Info("train count halted", "trains", n, "kind", res.Halt.Kind, "t", res.Halt.Time)
		}
		results = append(results, res)
	}
	return results, nil
}

func runOne(cfg Config, n int) (Result, error) {
	c, err := circuit.New(cfg.Layout, n, cfg.Options)
	if err != nil {
		return Result{}, err
	}
	res := Result{NumTrains: n}
	if err := c.Run(cfg.Ticks); err != nil {
		var h *circuit.Halt
		if !errors.As(err, &h) {
			return Result{}, err
		}
		res.Halt = h
	}
	res.Summary = stats.Summarise(c.Trains(), c.Time(), cfg.RidersPerTrain)
	return res, nil
}

// Best returns the operable result with the highest hourly capacity.
func Best(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if !r.Operable() {
			continue
		}
		if !found || r.Summary.HourlyCapacity > best.Summary.HourlyCapacity {
			best, found = r, true
		}
	}
	return best, found
}

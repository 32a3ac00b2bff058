package circuit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cxd309/block-circuit/internal/stats"
)

// Simulate builds a circuit from input and runs it for input.Meta.Ticks.
// A halt is part of the report, not an error; only configuration problems
// are returned as errors.
func Simulate(input SimulationInput) (SimulationReport, error) {
	c, err := New(input.Layout, input.NumTrains, input.Options)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("building circuit: %w", err)
	}

	report := SimulationReport{Meta: input.Meta}
	var h *Halt
	if err := c.Run(input.Meta.Ticks); err != nil && !errors.As(err, &h) {
		return SimulationReport{}, err
	}
	report.Halt = h
	report.Time = c.Time()
	report.Summary = stats.Summarise(c.Trains(), c.Time(), input.RidersPerTrain)
	return report, nil
}

// RunJSON is the entry point shared by the CLI and WASM builds. It accepts a
// JSON-encoded SimulationInput and returns a JSON-encoded SimulationReport.
func RunJSON(jsonInput string) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	report, err := Simulate(input)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}

// Command block-circuit reads a SimulationInput JSON from a file argument (or
// stdin), runs the circuit and prints a throughput report. With -sweep it
// runs every train count the layout can hold instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/cxd309/block-circuit/internal/capacity"
	"github.com/cxd309/block-circuit/internal/circuit"
	"github.com/cxd309/block-circuit/internal/layout"
	"github.com/cxd309/block-circuit/internal/stats"
	"github.com/cxd309/block-circuit/internal/storage"
)

func main() {
	var (
		ticks    = flag.Int("ticks", 0, "seconds to simulate; overrides simulation_meta.ticks")
		trains   = flag.Int("trains", 0, "number of trains; overrides num_trains")
		riders   = flag.Int("riders", 0, "riders per train; overrides riders_per_train")
		preset   = flag.String("preset", "", "built-in layout to use instead of the input layout ("+presetNames()+")")
		sweep    = flag.Bool("sweep", false, "run every train count the layout can hold")
		dbPath   = flag.String("db", "", "SQLite file to record sweep results in")
		asJSON   = flag.Bool("json", false, "write the report as JSON")
		logLevel = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fatal(logger, "invalid log level", err)
	}
	logger.SetLevel(level)

	input, err := readInput(flag.Arg(0), *preset != "")
	if err != nil {
		fatal(logger, "error reading input", err)
	}
	if *preset != "" {
		build, ok := layout.Presets[*preset]
		if !ok {
			fatal(logger, "unknown preset", fmt.Errorf("%q", *preset))
		}
		input.Layout = build()
		if input.Meta.SimulationID == "" {
			input.Meta.SimulationID = *preset
		}
	}
	if *ticks > 0 {
		input.Meta.Ticks = *ticks
	}
	if *trains > 0 {
		input.NumTrains = *trains
	}
	if *riders > 0 {
		input.RidersPerTrain = *riders
	}
	input.Options.Logger = logger

	if *sweep {
		runSweep(logger, input, *dbPath, *asJSON)
		return
	}

	logger.Info("simulation started", "id", input.Meta.SimulationID, "trains", input.NumTrains, "ticks", input.Meta.Ticks)
	report, err := circuit.Simulate(input)
	if err != nil {
		fatal(logger, "simulation error", err)
	}
	logger.Info("simulation finished", "id", input.Meta.SimulationID, "time", report.Time)

	if *asJSON {
		writeJSON(logger, report)
		return
	}
	printSummary(os.Stdout, input.NumTrains, report.Summary)
	if report.Halt != nil {
		fmt.Printf("Halted: %v\n", report.Halt)
		os.Exit(2)
	}
}

// readInput decodes the SimulationInput from path, or stdin when path is
// empty. With a preset and no path the input is optional.
func readInput(path string, optional bool) (circuit.SimulationInput, error) {
	var input circuit.SimulationInput
	var (
		data []byte
		err  error
	)
	switch {
	case path != "":
		data, err = os.ReadFile(path)
	case optional:
		return input, nil
	default:
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return input, err
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("invalid input JSON: %w", err)
	}
	return input, nil
}

func runSweep(logger *log.Logger, input circuit.SimulationInput, dbPath string, asJSON bool) {
	ctx := context.Background()
	cfg := capacity.Config{
		Layout:         input.Layout,
		Options:        input.Options,
		Ticks:          input.Meta.Ticks,
		RidersPerTrain: input.RidersPerTrain,
	}
	results, err := capacity.Sweep(ctx, cfg, logger)
	if err != nil {
		fatal(logger, "sweep error", err)
	}

	if dbPath != "" {
		if err := recordSweep(ctx, logger, dbPath, input.Meta.SimulationID, cfg, results); err != nil {
			fatal(logger, "recording sweep", err)
		}
	}

	if asJSON {
		writeJSON(logger, results)
		return
	}
	for _, r := range results {
		if r.Operable() {
			fmt.Printf("%2d trains: %s riders/hour, %s laps/hour\n", r.NumTrains,
				humanize.CommafWithDigits(r.Summary.HourlyCapacity, 1),
				humanize.FtoaWithDigits(r.Summary.TotalCircuitsPerHour, 2))
			continue
		}
		fmt.Printf("%2d trains: not operable (%v)\n", r.NumTrains, r.Halt)
	}
	if best, ok := capacity.Best(results); ok {
		fmt.Printf("Best: %d trains at %s riders/hour\n", best.NumTrains,
			humanize.CommafWithDigits(best.Summary.HourlyCapacity, 1))
	}
}

// recordSweep stores the sweep and reports the best completed run recorded
// so far for the simulation id, including earlier sweeps.
func recordSweep(ctx context.Context, logger *log.Logger, dbPath, simulationID string, cfg capacity.Config, results []capacity.Result) error {
	db, err := storage.InitSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer db.Close()

	repo := storage.NewRunRepository(db)
	ids, err := capacity.Save(ctx, repo, simulationID, cfg, results)
	if err != nil {
		return err
	}
	logger.Info("sweep recorded", "db", dbPath, "runs", len(ids))

	best, err := repo.BestOperable(ctx, simulationID)
	if err != nil {
		return fmt.Errorf("querying best run: %w", err)
	}
	if best != nil {
		logger.Info("best recorded run", "id", simulationID, "trains", best.NumTrains,
			"capacity", humanize.CommafWithDigits(best.HourlyCapacity, 1), "run", best.RunID)
	}
	return nil
}

func printSummary(w io.Writer, numTrains int, s stats.Summary) {
	fmt.Fprintf(w, "Simulated %s seconds\n", humanize.Comma(int64(s.Elapsed)))
	fmt.Fprintln(w, "Percent of Sim Time Spent Idle:")
	for _, t := range s.Trains {
		fmt.Fprintf(w, "  %s: %s%%\n", t.Name, humanize.FtoaWithDigits(t.IdlePercent, 2))
	}
	fmt.Fprintf(w, "Average Hourly Capacity with %d trains: %s\n", numTrains,
		humanize.CommafWithDigits(s.HourlyCapacity, 1))
}

func writeJSON(logger *log.Logger, v any) {
	out, err := json.Marshal(v)
	if err != nil {
		fatal(logger, "marshaling output", err)
	}
	fmt.Println(string(out))
}

func presetNames() string {
	names := make([]string, 0, len(layout.Presets))
	for name := range layout.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

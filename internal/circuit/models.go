package circuit

import (
	"github.com/charmbracelet/log"

	"github.com/cxd309/block-circuit/internal/layout"
	"github.com/cxd309/block-circuit/internal/stats"
)

// Options are the optional run parameters of a circuit.
type Options struct {
	// Sluggishness adds a log-normal draw to every mandatory hold.
	Sluggishness      bool    `json:"sluggishness"`
	SluggishnessMu    float64 `json:"sluggishness_mu"`
	SluggishnessSigma float64 `json:"sluggishness_sigma"`
	RandomSeed        int64   `json:"random_seed"`

	// CircuitCompletionBlocks are the blocks whose entry counts as a lap.
	CircuitCompletionBlocks []layout.BlockName `json:"circuit_completion_blocks,omitempty"`

	// TrainOrder is the per-tick evaluation priority; earlier trains win
	// contention for a block within the same tick. Defaults to train 0..n-1.
	TrainOrder []string `json:"train_order,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SimulationMeta holds the identity and length of a run.
type SimulationMeta struct {
	SimulationID string `json:"simulation_id"`
	Ticks        int    `json:"ticks"` // seconds
}

// SimulationInput is the JSON-serialisable input to RunJSON.
type SimulationInput struct {
	Meta           SimulationMeta `json:"simulation_meta"`
	Layout         layout.Layout  `json:"layout"`
	NumTrains      int            `json:"num_trains"`
	Options        Options        `json:"options"`
	RidersPerTrain int            `json:"riders_per_train,omitempty"`
}

// SimulationReport is the output of a run. Halt is set when the run stopped early.
type SimulationReport struct {
	Meta    SimulationMeta `json:"simulation_meta"`
	Time    int            `json:"time"` // seconds simulated
	Summary stats.Summary  `json:"summary"`
	Halt    *Halt          `json:"halt,omitempty"`
}

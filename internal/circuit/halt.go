package circuit

import "fmt"

// HaltKind tags why a circuit stopped.
type HaltKind string

const (
	// HaltOperational: a train is blocked at a block that cannot hold a train.
	HaltOperational HaltKind = "operational"
	// HaltGridlock: every train was blocked in the same tick.
	HaltGridlock HaltKind = "gridlock"
)

// Halt is the terminal result of a tick. Train and Block are only set for
// operational halts.
type Halt struct {
	Kind  HaltKind `json:"kind"`
	Train string   `json:"train,omitempty"`
	Block string   `json:"block,omitempty"`
	Time  int      `json:"time"`
}

func (h *Halt) Error() string {
	switch h.Kind {
	case HaltOperational:
		return fmt.Sprintf("train %q halted at block %q at t=%d", h.Train, h.Block, h.Time)
	case HaltGridlock:
		return fmt.Sprintf("gridlock at t=%d", h.Time)
	default:
		return fmt.Sprintf("halt %q at t=%d", h.Kind, h.Time)
	}
}

// Package train defines the motion and hold state of a single vehicle.
// All transitions are driven by the circuit package.
package train

import (
	"fmt"

	"github.com/cxd309/block-circuit/internal/layout"
)

// Status is the phase of travel relative to the train's current block.
type Status string

const (
	StatusHeld               Status = "held"
	StatusBeforeBlock        Status = "before block"
	StatusAfterBlockFromHeld Status = "after block - from held"
	StatusAfterBlockNotHeld  Status = "after block - not held"
)

// Departing reports whether the train has claimed its next block and is
// still clearing its current one.
func (s Status) Departing() bool {
	return s == StatusAfterBlockFromHeld || s == StatusAfterBlockNotHeld
}

// Train is a vehicle on the circuit. At most one of SecondsToReachBlock,
// SecondsToClearFromHeld and SecondsToClearBlockInMotion is non-zero.
type Train struct {
	Name      string `json:"name"`
	LeadTrain bool   `json:"lead_train"`

	CurrentBlock  layout.BlockName `json:"current_block"`
	NextBlockName layout.BlockName `json:"next_block_name"`

	SecondsToReachBlock         int `json:"seconds_to_reach_block"`
	SecondsToClearFromHeld      int `json:"seconds_to_clear_from_held"`
	SecondsToClearBlockInMotion int `json:"seconds_to_clear_block_in_motion"`
	// Run down alongside SecondsToReachBlock on merger blocks.
	SecondsToClearMerger int `json:"seconds_to_clear_merger"`
	SecondsMergerToBlock int `json:"seconds_merger_to_block"`

	CurrentStatus     Status `json:"current_status"`
	MandatoryHoldLeft int    `json:"mandatory_hold_left"`

	SecondsHeldAtCurrentBlock int `json:"seconds_held_at_current_block"`
	TotalSecondsHeld          int `json:"total_seconds_held"`
	CircuitsCompleted         int `json:"circuits_completed"`
}

// New returns a train held at block with all countdowns at zero.
func New(name string, lead bool, block, next layout.BlockName) *Train {
	return &Train{
		Name:          name,
		LeadTrain:     lead,
		CurrentBlock:  block,
		NextBlockName: next,
		CurrentStatus: StatusHeld,
	}
}

// Name returns the conventional name of the i-th train.
func Name(i int) string { return fmt.Sprintf("train %d", i) }

// ActiveCountdowns returns how many of the exclusive motion countdowns are running.
func (t *Train) ActiveCountdowns() int {
	n := 0
	for _, v := range []int{t.SecondsToReachBlock, t.SecondsToClearFromHeld, t.SecondsToClearBlockInMotion} {
		if v > 0 {
			n++
		}
	}
	return n
}

// Hold records one second spent waiting for the next block.
func (t *Train) Hold() {
	t.SecondsHeldAtCurrentBlock++
	t.TotalSecondsHeld++
}

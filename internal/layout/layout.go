// Package layout provides the serialisable block topology of a circuit and
// the validation applied to it before any simulation runs.
package layout

import (
	"errors"
	"fmt"
)

// BlockName is the unique identifier of a block.
type BlockName = string

// Configuration errors. Every error returned by Validate wraps exactly one of these.
var (
	ErrDuplicateBlock  = errors.New("duplicate block")
	ErrUnknownBlock    = errors.New("unknown block")
	ErrInvalidTiming   = errors.New("invalid timing")
	ErrInvalidMerger   = errors.New("invalid merger switch")
	ErrInvalidSplitter = errors.New("invalid splitter switch")
	ErrTrainCount      = errors.New("invalid train count")
	ErrTrainOrder      = errors.New("invalid train order")
)

// MergerSpec describes a converging switch on the inbound side of a block.
type MergerSpec struct {
	BlockA                     BlockName `json:"block_a"`
	BlockB                     BlockName `json:"block_b"`
	SecondsToClearMerger       int       `json:"seconds_to_clear_merger"`
	SecondsMergerToBlock       int       `json:"seconds_merger_to_block"` // bookkeeping only
	CorrespondingSplitterBlock BlockName `json:"corresponding_splitter_block,omitempty"`
}

// SplitterSpec describes a diverging switch on the outbound side of a block.
// The initial switch position is the block's NextBlock.
type SplitterSpec struct {
	BlockA                   BlockName `json:"block_a"`
	BlockB                   BlockName `json:"block_b"`
	CorrespondingMergerBlock BlockName `json:"corresponding_merger_block,omitempty"`
}

// BlockSpec is the static definition of a single track segment.
// Timing fields are nil when not applicable to the block.
type BlockSpec struct {
	Name                        BlockName     `json:"name"`
	NextBlock                   BlockName     `json:"next_block"`
	SecondsToReachBlock         *int          `json:"seconds_to_reach_block"`
	SecondsToClearFromHeld      *int          `json:"seconds_to_clear_from_held"`
	SecondsToClearBlockInMotion *int          `json:"seconds_to_clear_block_in_motion"`
	IsOccupied                  bool          `json:"is_occupied,omitempty"`
	CanOperateFromStop          bool          `json:"can_operate_from_stop"`
	MandatoryHold               bool          `json:"mandatory_hold"`
	HoldTime                    *int          `json:"hold_time,omitempty"`
	Merger                      *MergerSpec   `json:"merger,omitempty"`
	Splitter                    *SplitterSpec `json:"splitter,omitempty"`
}

// Layout is an ordered list of blocks. Order matters: initial train placement
// walks the operable blocks in this order.
type Layout struct {
	Blocks []BlockSpec `json:"blocks"`
}

// Seconds resolves an optional timing constant; not-applicable resolves to zero.
func Seconds(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// Secs is a convenience for building BlockSpecs in code.
func Secs(v int) *int { return &v }

// Operable returns the names of blocks a train may be held at, in layout order.
func (l Layout) Operable() []BlockName {
	var names []BlockName
	for _, b := range l.Blocks {
		if b.CanOperateFromStop {
			names = append(names, b.Name)
		}
	}
	return names
}

// Validate checks names, timings and switch configuration. It does not check
// that the layout forms a closed loop.
func (l Layout) Validate() error {
	index := make(map[BlockName]BlockSpec, len(l.Blocks))
	for _, b := range l.Blocks {
		if b.Name == "" {
			return fmt.Errorf("block with empty name: %w", ErrUnknownBlock)
		}
		if _, exists := index[b.Name]; exists {
			return fmt.Errorf("block %q: %w", b.Name, ErrDuplicateBlock)
		}
		index[b.Name] = b
	}

	exists := func(name BlockName) bool {
		_, ok := index[name]
		return ok
	}

	for _, b := range l.Blocks {
		if !exists(b.NextBlock) {
			return fmt.Errorf("block %q: next block %q: %w", b.Name, b.NextBlock, ErrUnknownBlock)
		}
		if err := validateTimings(b); err != nil {
			return fmt.Errorf("block %q: %w", b.Name, err)
		}

		if m := b.Merger; m != nil {
			if m.BlockA == m.BlockB {
				return fmt.Errorf("block %q: inbound blocks are both %q: %w", b.Name, m.BlockA, ErrInvalidMerger)
			}
			for _, in := range []BlockName{m.BlockA, m.BlockB} {
				if !exists(in) {
					return fmt.Errorf("block %q: merger inbound %q: %w", b.Name, in, ErrUnknownBlock)
				}
			}
			if m.SecondsToClearMerger < 0 || m.SecondsMergerToBlock < 0 {
				return fmt.Errorf("block %q: negative merger timing: %w", b.Name, ErrInvalidTiming)
			}
			if m.CorrespondingSplitterBlock != "" {
				s, ok := index[m.CorrespondingSplitterBlock]
				if !ok {
					return fmt.Errorf("block %q: corresponding splitter %q: %w", b.Name, m.CorrespondingSplitterBlock, ErrUnknownBlock)
				}
				if s.Splitter == nil {
					return fmt.Errorf("block %q: corresponding splitter %q has no splitter switch: %w",
						b.Name, s.Name, ErrInvalidMerger)
				}
			}
		}

		if s := b.Splitter; s != nil {
			if s.BlockA == s.BlockB {
				return fmt.Errorf("block %q: outbound blocks are both %q: %w", b.Name, s.BlockA, ErrInvalidSplitter)
			}
			for _, out := range []BlockName{s.BlockA, s.BlockB} {
				if !exists(out) {
					return fmt.Errorf("block %q: splitter outbound %q: %w", b.Name, out, ErrUnknownBlock)
				}
			}
			if b.NextBlock != s.BlockA && b.NextBlock != s.BlockB {
				return fmt.Errorf("block %q: next block %q is neither %q nor %q: %w",
					b.Name, b.NextBlock, s.BlockA, s.BlockB, ErrInvalidSplitter)
			}
			if s.CorrespondingMergerBlock != "" {
				m, ok := index[s.CorrespondingMergerBlock]
				if !ok {
					return fmt.Errorf("block %q: corresponding merger %q: %w", b.Name, s.CorrespondingMergerBlock, ErrUnknownBlock)
				}
				if m.Merger == nil {
					return fmt.Errorf("block %q: corresponding merger %q has no merger switch: %w",
						b.Name, m.Name, ErrInvalidSplitter)
				}
			}
		}
	}
	return nil
}

func validateTimings(b BlockSpec) error {
	timings := []struct {
		label string
		v     *int
	}{
		{"seconds_to_reach_block", b.SecondsToReachBlock},
		{"seconds_to_clear_from_held", b.SecondsToClearFromHeld},
		{"seconds_to_clear_block_in_motion", b.SecondsToClearBlockInMotion},
		{"hold_time", b.HoldTime},
	}
	for _, t := range timings {
		if t.v != nil && *t.v < 0 {
			return fmt.Errorf("%s is %d: %w", t.label, *t.v, ErrInvalidTiming)
		}
	}
	if b.MandatoryHold && b.HoldTime == nil {
		return fmt.Errorf("mandatory hold without hold_time: %w", ErrInvalidTiming)
	}
	return nil
}

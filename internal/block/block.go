// Package block implements the runtime state of a track segment: occupancy
// and the merger/splitter switch arbitration that gates it.
package block

import (
	"fmt"

	"github.com/cxd309/block-circuit/internal/layout"
)

// SwitchStatus describes whether a switch is locked in a position.
type SwitchStatus string

const (
	SwitchInPosition SwitchStatus = "in position"
	SwitchInMotion   SwitchStatus = "in motion"
)

// Merger is the converging switch state of a block.
type Merger struct {
	BlockA, BlockB             layout.BlockName
	SecondsToClearMerger       int
	SecondsMergerToBlock       int
	CorrespondingSplitterBlock layout.BlockName

	Position layout.BlockName
	Status   SwitchStatus
}

// Splitter is the diverging switch state of a block. Position always equals
// the owning block's NextBlock.
type Splitter struct {
	BlockA, BlockB           layout.BlockName
	CorrespondingMergerBlock layout.BlockName

	Position layout.BlockName
}

// Block is a track segment. Merger and Splitter are nil when the block has
// no such switch.
type Block struct {
	Name                        layout.BlockName
	NextBlock                   layout.BlockName
	SecondsToReachBlock         int
	SecondsToClearFromHeld      int
	SecondsToClearBlockInMotion int
	CanOperateFromStop          bool
	MandatoryHold               bool
	HoldTime                    int

	Merger   *Merger
	Splitter *Splitter

	occupied bool
}

// New builds a Block from its static spec. Merger switches start pointing at
// BlockA; splitter switches start at the spec's NextBlock.
func New(spec layout.BlockSpec) (*Block, error) {
	b := &Block{
		Name:                        spec.Name,
		NextBlock:                   spec.NextBlock,
		SecondsToReachBlock:         layout.Seconds(spec.SecondsToReachBlock),
		SecondsToClearFromHeld:      layout.Seconds(spec.SecondsToClearFromHeld),
		SecondsToClearBlockInMotion: layout.Seconds(spec.SecondsToClearBlockInMotion),
		CanOperateFromStop:          spec.CanOperateFromStop,
		MandatoryHold:               spec.MandatoryHold,
		HoldTime:                    layout.Seconds(spec.HoldTime),
		occupied:                    spec.IsOccupied,
	}
	if m := spec.Merger; m != nil {
		b.Merger = &Merger{
			BlockA:                     m.BlockA,
			BlockB:                     m.BlockB,
			SecondsToClearMerger:       m.SecondsToClearMerger,
			SecondsMergerToBlock:       m.SecondsMergerToBlock,
			CorrespondingSplitterBlock: m.CorrespondingSplitterBlock,
			Position:                   m.BlockA,
			Status:                     SwitchInPosition,
		}
	}
	if s := spec.Splitter; s != nil {
		if spec.NextBlock != s.BlockA && spec.NextBlock != s.BlockB {
			return nil, fmt.Errorf("block %q: next block %q is neither %q nor %q: %w",
				spec.Name, spec.NextBlock, s.BlockA, s.BlockB, layout.ErrInvalidSplitter)
		}
		b.Splitter = &Splitter{
			BlockA:                   s.BlockA,
			BlockB:                   s.BlockB,
			CorrespondingMergerBlock: s.CorrespondingMergerBlock,
			Position:                 spec.NextBlock,
		}
	}
	return b, nil
}

// IsOccupied reports whether a train currently claims the block.
func (b *Block) IsOccupied() bool { return b.occupied }

// Occupy attempts to claim the block for a train currently at requester.
// With override set the claim always succeeds; this is only used when
// placing trains at construction time.
//
// A merger block only grants the claim to the inbound block its switch is
// locked on.
func (b *Block) Occupy(requester layout.BlockName, override bool) bool {
	if override {
		b.occupied = true
		return true
	}
	if b.occupied {
		return false
	}
	if m := b.Merger; m != nil {
		if m.Status == SwitchInMotion || m.Position != requester {
			return false
		}
	}
	b.occupied = true
	return true
}

// Unoccupy releases the block. A splitter alternates to its other branch
// unless overrideSwitch is set, which is required when only one train runs.
func (b *Block) Unoccupy(overrideSwitch bool) {
	b.occupied = false
	if b.Splitter != nil && !overrideSwitch {
		b.ToggleSplitterSwitch()
	}
}

// MergerSwitchStatus returns the inbound blocks as (active, inactive), where
// active is the one the switch currently points at.
func (b *Block) MergerSwitchStatus() (active, inactive layout.BlockName) {
	m := b.mustMerger()
	if m.Position == m.BlockA {
		return m.BlockA, m.BlockB
	}
	return m.BlockB, m.BlockA
}

// SignalClearedMerger is called once a train has cleared the merger zone.
func (b *Block) SignalClearedMerger(doSwitch bool) {
	if doSwitch {
		b.ToggleMergerSwitch()
	}
}

// ToggleMergerSwitch points the merger at the other inbound block.
// It panics if the switch is not on one of its configured alternatives.
func (b *Block) ToggleMergerSwitch() {
	m := b.mustMerger()
	switch m.Position {
	case m.BlockA:
		m.Position = m.BlockB
	case m.BlockB:
		m.Position = m.BlockA
	default:
		panic(fmt.Sprintf("block %q: merger switch at %q, expected %q or %q", b.Name, m.Position, m.BlockA, m.BlockB))
	}
}

// ToggleSplitterSwitch routes the block to the other outbound block.
// It panics if the switch is not on one of its configured alternatives.
func (b *Block) ToggleSplitterSwitch() {
	s := b.Splitter
	if s == nil {
		panic(fmt.Sprintf("block %q has no splitter switch", b.Name))
	}
	switch s.Position {
	case s.BlockA:
		s.Position = s.BlockB
	case s.BlockB:
		s.Position = s.BlockA
	default:
		panic(fmt.Sprintf("block %q: splitter switch at %q, expected %q or %q", b.Name, s.Position, s.BlockA, s.BlockB))
	}
	b.NextBlock = s.Position
}

func (b *Block) mustMerger() *Merger {
	if b.Merger == nil {
		panic(fmt.Sprintf("block %q has no merger switch", b.Name))
	}
	return b.Merger
}

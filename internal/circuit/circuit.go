// Package circuit implements the block-signalled ride simulation.
//
// The circuit advances in one-second ticks. Each tick visits every train in
// a fixed priority order and fires exactly one transition per train:
//
//  1. held with dwell remaining: count the dwell down.
//  2. held with dwell elapsed: try to claim the next block.
//  3. travelling into its block: count down, arbitrating the merger switch
//     once the train clears the merger zone.
//  4. clearing its block after a claim: count down.
//  5. all countdowns done: either arrive at the block (hold or claim the
//     next one) or move into the already-claimed next block.
//
// A tick in which every train failed to claim a block is a gridlock. A train
// that cannot claim past a block that cannot hold it is an operational halt.
// Both are terminal.
package circuit

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cxd309/block-circuit/internal/block"
	"github.com/cxd309/block-circuit/internal/layout"
	"github.com/cxd309/block-circuit/internal/train"
)

// Circuit owns every block and train. It is not safe for concurrent use.
type Circuit struct {
	blocks     map[layout.BlockName]*block.Block
	blockOrder []layout.BlockName
	trains     map[string]*train.Train
	order      []*train.Train

	time       int
	opts       Options
	completion map[layout.BlockName]struct{}
	rng        *rand.Rand
	logger     *log.Logger
	halt       *Halt
}

// New validates the layout, builds its blocks and spaces numTrains trains
// evenly over the blocks that can operate from a stop.
func New(l layout.Layout, numTrains int, opts Options) (*Circuit, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if !isFinite(opts.SluggishnessMu) || !isFinite(opts.SluggishnessSigma) {
		return nil, fmt.Errorf("sluggishness mu %v, sigma %v: %w",
			opts.SluggishnessMu, opts.SluggishnessSigma, layout.ErrInvalidTiming)
	}

	c := &Circuit{
		blocks:     make(map[layout.BlockName]*block.Block, len(l.Blocks)),
		trains:     make(map[string]*train.Train, numTrains),
		opts:       opts,
		completion: make(map[layout.BlockName]struct{}, len(opts.CircuitCompletionBlocks)),
		rng:        rand.New(rand.NewPCG(uint64(opts.RandomSeed), uint64(opts.RandomSeed))),
		logger:     opts.Logger,
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	for _, spec := range l.Blocks {
		b, err := block.New(spec)
		if err != nil {
			return nil, err
		}
		c.blocks[spec.Name] = b
		c.blockOrder = append(c.blockOrder, spec.Name)
	}
	for _, name := range opts.CircuitCompletionBlocks {
		if _, ok := c.blocks[name]; !ok {
			return nil, fmt.Errorf("circuit completion block %q: %w", name, layout.ErrUnknownBlock)
		}
		c.completion[name] = struct{}{}
	}

	if err := c.placeTrains(l.Operable(), numTrains); err != nil {
		return nil, err
	}
	if err := c.applyOrder(opts.TrainOrder); err != nil {
		return nil, err
	}
	return c, nil
}

// placeTrains puts train i on operable block round(i*len(operable)/numTrains),
// rounding half to even.
func (c *Circuit) placeTrains(operable []layout.BlockName, numTrains int) error {
	if numTrains < 1 || numTrains > len(operable) {
		return fmt.Errorf("%d trains on %d operable blocks: %w", numTrains, len(operable), layout.ErrTrainCount)
	}
	for i := range numTrains {
		idx := int(math.RoundToEven(float64(i*len(operable)) / float64(numTrains)))
		b := c.blocks[operable[idx]]
		t := train.New(train.Name(i), i == 0, b.Name, b.NextBlock)
		b.Occupy("", true)
		c.trains[t.Name] = t
		c.order = append(c.order, t)
	}
	return nil
}

func (c *Circuit) applyOrder(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != len(c.order) {
		return fmt.Errorf("%d names for %d trains: %w", len(names), len(c.order), layout.ErrTrainOrder)
	}
	order := make([]*train.Train, 0, len(names))
	for _, name := range names {
		t, ok := c.trains[name]
		if !ok {
			return fmt.Errorf("train %q: %w", name, layout.ErrTrainOrder)
		}
		if slices.Contains(order, t) {
			return fmt.Errorf("train %q listed twice: %w", name, layout.ErrTrainOrder)
		}
		order = append(order, t)
	}
	c.order = order
	return nil
}

// Step advances the circuit by one second. It returns a *Halt when the
// circuit can no longer make progress; once halted every later call returns
// the same halt and the clock stays put.
func (c *Circuit) Step() error {
	if c.halt != nil {
		return c.halt
	}

	blocked := 0
	for _, t := range c.order {
		stuck, err := c.advance(t)
		if err != nil {
			return c.stop(err)
		}
		if stuck {
			blocked++
		}
	}
	if blocked == len(c.order) {
		return c.stop(&Halt{Kind: HaltGridlock, Time: c.time})
	}

	c.time++
	return nil
}

// Run steps the circuit up to ticks times, stopping at the first halt.
func (c *Circuit) Run(ticks int) error {
	for range ticks {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) stop(err error) error {
	var h *Halt
	if !errors.As(err, &h) {
		panic(fmt.Sprintf("unexpected tick error: %v", err))
	}
	c.halt = h
	c.logger.Warn("circuit halted", "kind", h.Kind, "train", h.Train, "block", h.Block, "t", h.Time)
	return h
}

// advance fires one transition for t. stuck reports that t wanted to claim
// a block this tick and could not.
func (c *Circuit) advance(t *train.Train) (stuck bool, err error) {
	cur := c.blocks[t.CurrentBlock]

	switch {
	case t.CurrentStatus == train.StatusHeld:
		if t.MandatoryHoldLeft > 0 {
			t.MandatoryHoldLeft--
			return false, nil
		}
		next := cur.NextBlock
		if !c.blocks[next].Occupy(cur.Name, false) {
			if !cur.CanOperateFromStop {
				return true, c.operationalHalt(t, cur)
			}
			t.Hold()
			return true, nil
		}
		t.NextBlockName = next
		t.SecondsToClearFromHeld = cur.SecondsToClearFromHeld
		t.CurrentStatus = train.StatusAfterBlockFromHeld

	case t.SecondsToReachBlock > 0:
		c.approach(t, cur)

	case t.SecondsToClearFromHeld > 0:
		t.SecondsToClearFromHeld--

	case t.SecondsToClearBlockInMotion > 0:
		t.SecondsToClearBlockInMotion--

	case t.CurrentStatus == train.StatusBeforeBlock:
		return c.arrive(t, cur)

	default:
		c.enterNext(t, cur)
	}
	return false, nil
}

// approach counts t down towards its current block.
func (c *Circuit) approach(t *train.Train, cur *block.Block) {
	if cur.Merger != nil && t.SecondsToClearMerger > 0 {
		t.SecondsToClearMerger--
		// A lone train never moves the merger: it always returns the way it left.
		if t.SecondsToClearMerger == 0 && len(c.order) > 1 {
			doSwitch := c.shouldSwitchMerger(cur)
			cur.SignalClearedMerger(doSwitch)
			if doSwitch {
				c.logger.Debug("merger switched", "block", cur.Name, "position", cur.Merger.Position, "t", c.time)
			}
		}
	} else if t.SecondsMergerToBlock > 0 {
		t.SecondsMergerToBlock--
	}
	t.SecondsToReachBlock--
}

// shouldSwitchMerger decides whether cur's merger should point at its other
// inbound block. With both inbound blocks empty the corresponding splitter's
// route stands in for whichever inbound block will dispatch next.
func (c *Circuit) shouldSwitchMerger(cur *block.Block) bool {
	active, inactive := cur.MergerSwitchStatus()
	activeOccupied := c.blocks[active].IsOccupied()
	inactiveOccupied := c.blocks[inactive].IsOccupied()

	switch {
	case !activeOccupied && !inactiveOccupied:
		name := cur.Merger.CorrespondingSplitterBlock
		if name == "" {
			return false
		}
		s := c.blocks[name].Splitter
		return s != nil && s.Position == inactive
	case !activeOccupied && inactiveOccupied:
		return true
	default:
		return false
	}
}

// arrive handles t reaching the block it was travelling towards.
func (c *Circuit) arrive(t *train.Train, cur *block.Block) (stuck bool, err error) {
	if cur.MandatoryHold {
		t.CurrentStatus = train.StatusHeld
		t.MandatoryHoldLeft = cur.HoldTime + c.dwellPerturbation()
		return false, nil
	}

	next := cur.NextBlock
	if !c.blocks[next].Occupy(cur.Name, false) {
		t.CurrentStatus = train.StatusHeld
		if !cur.CanOperateFromStop {
			return true, c.operationalHalt(t, cur)
		}
		return true, nil
	}
	t.NextBlockName = next
	t.SecondsToClearBlockInMotion = cur.SecondsToClearBlockInMotion
	t.CurrentStatus = train.StatusAfterBlockNotHeld
	return false, nil
}

// enterNext moves t into the block it already claimed and releases cur.
func (c *Circuit) enterNext(t *train.Train, cur *block.Block) {
	nb := c.blocks[t.NextBlockName]

	t.CurrentBlock = nb.Name
	t.NextBlockName = nb.NextBlock
	t.SecondsToReachBlock = nb.SecondsToReachBlock
	t.SecondsToClearMerger, t.SecondsMergerToBlock = 0, 0
	if nb.Merger != nil {
		t.SecondsToClearMerger = nb.Merger.SecondsToClearMerger
		t.SecondsMergerToBlock = nb.Merger.SecondsMergerToBlock
	}
	t.SecondsHeldAtCurrentBlock = 0
	t.CurrentStatus = train.StatusBeforeBlock

	cur.Unoccupy(len(c.order) == 1)

	if _, ok := c.completion[nb.Name]; ok {
		t.CircuitsCompleted++
		if t.LeadTrain {
			c.logger.Debug("lead train completed circuit", "train", t.Name, "laps", t.CircuitsCompleted, "t", c.time)
		}
	}
}

func (c *Circuit) operationalHalt(t *train.Train, cur *block.Block) error {
	return &Halt{Kind: HaltOperational, Train: t.Name, Block: cur.Name, Time: c.time}
}

// Time returns the number of completed ticks.
func (c *Circuit) Time() int { return c.time }

// NumTrains returns the number of trains on the circuit.
func (c *Circuit) NumTrains() int { return len(c.order) }

// Halted returns the halt that stopped the circuit, or nil.
func (c *Circuit) Halted() *Halt { return c.halt }

// Trains returns a snapshot of every train in evaluation order.
func (c *Circuit) Trains() []train.Train {
	out := make([]train.Train, len(c.order))
	for i, t := range c.order {
		out[i] = *t
	}
	return out
}

// Train returns a snapshot of the named train.
func (c *Circuit) Train(name string) (train.Train, bool) {
	t, ok := c.trains[name]
	if !ok {
		return train.Train{}, false
	}
	return *t, true
}

// BlockNames returns the block names in layout order.
func (c *Circuit) BlockNames() []layout.BlockName { return slices.Clone(c.blockOrder) }

// Block returns the named block. Callers must treat it as read-only.
func (c *Circuit) Block(name layout.BlockName) (*block.Block, bool) {
	b, ok := c.blocks[name]
	return b, ok
}

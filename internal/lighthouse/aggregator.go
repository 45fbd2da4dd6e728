package lighthouse

import "github.com/banshee-data/lighthouse/internal/monitoring"

// sweepGapTicks separates pulses belonging to one rotation pass from pulses
// of the next pass. A plane crosses all four sensors within well under
// 10000 ticks (~417us) while consecutive passes are tens of thousands of
// ticks apart, so a gap larger than this closes the open block.
const sweepGapTicks = 10000

// PulseAggregator groups the raw pulse stream into sweep blocks. It is
// inherently sequential: the grouping heuristic depends on global pulse
// arrival order, so a single aggregator must own the whole stream.
type PulseAggregator struct {
	block       *SweepBlock
	latestPulse uint32
}

// NewPulseAggregator returns an aggregator with no open block.
func NewPulseAggregator() *PulseAggregator {
	return &PulseAggregator{}
}

// Push feeds one pulse into the aggregator. When the pulse's timestamp gap
// closes an open block and that block finalizes cleanly, the finalized block
// is returned; otherwise Push returns nil. Blocks that fail finalization and
// blocks corrupted by a duplicate sensor pulse are discarded silently apart
// from a diagnostic.
func (a *PulseAggregator) Push(ev PulseEvent) *SweepBlock {
	var done *SweepBlock

	if delta := TickSub(ev.Timestamp, a.latestPulse); delta > sweepGapTicks && a.block != nil {
		if err := a.block.Finalize(); err != nil {
			monitoring.Logf("discarding sweep block: %v", err)
		} else {
			done = a.block
		}
		a.block = nil
	}
	a.latestPulse = ev.Timestamp

	if a.block == nil {
		a.block = NewSweepBlock()
	}

	if !a.block.Push(ev) {
		// Two pulses for one sensor inside a single aggregation window is a
		// framing inconsistency we cannot repair; drop the window entirely
		// and start fresh on the next pulse.
		monitoring.Logf("duplicate pulse for sensor %d, dropping open block", ev.Sensor)
		a.block = nil
	}

	return done
}

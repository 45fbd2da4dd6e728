package lighthouse

import (
	"errors"
	"fmt"
)

// secondSweepMaxTicks bounds the timestamp distance between the two plane
// passes of one revolution. 220000 ticks is roughly 180 degrees of rotation
// at 24 MHz; beyond that the blocks cannot belong to the same revolution.
const secondSweepMaxTicks = 220000

// ErrChannelMismatch reports a sweep block routed to the wrong tracker.
// That indicates a routing defect upstream; the block is dropped, processing
// continues.
var ErrChannelMismatch = errors.New("lighthouse: sweep block routed to wrong channel")

// BeaconTracker pairs consecutive sweep blocks of one beacon channel into
// revolutions. It is a two-state machine: either no block is pending, or one
// candidate first sweep is held while waiting for its second. Trackers for
// different channels are fully independent.
type BeaconTracker struct {
	channel uint8
	pending *SweepBlock
}

// NewBeaconTracker returns an empty tracker for the given channel.
func NewBeaconTracker(channel uint8) *BeaconTracker {
	return &BeaconTracker{channel: channel}
}

// Channel returns the beacon channel this tracker owns.
func (t *BeaconTracker) Channel() uint8 { return t.channel }

// isSecondSweep reports whether b can be the second plane pass of the
// revolution that started with a: the reference sensor's offset must be
// non-decreasing across the pair and the blocks must lie within half a
// rotation of each other.
func isSecondSweep(a, b *SweepBlock) bool {
	if a.Sensors[0].Offset > b.Sensors[0].Offset {
		return false
	}
	if TickSub(b.Timestamp, a.Timestamp) > secondSweepMaxTicks {
		return false
	}
	return true
}

// Push feeds a finalized sweep block to the tracker. When the block
// completes a revolution the computed angles are returned. A block that
// fails the second-sweep test silently replaces the stale pending block;
// that re-arm is a resynchronization, not an error.
func (t *BeaconTracker) Push(block *SweepBlock) (*SweepAngles, error) {
	if block.Channel != t.channel {
		return nil, fmt.Errorf("%w: block channel %d, tracker channel %d",
			ErrChannelMismatch, block.Channel, t.channel)
	}

	if t.pending == nil {
		t.pending = block
		return nil, nil
	}

	if !isSecondSweep(t.pending, block) {
		t.pending = block
		return nil, nil
	}

	angles := computeAngles(t.pending, block, t.channel)
	t.pending = nil
	return &angles, nil
}

package lighthouse

import (
	"errors"
	"testing"
)

// finalizedBlock builds a valid, finalized block for tracker tests. The
// offset reference is sensor 0 so the monotonicity check reads directly off
// the offset argument.
func finalizedBlock(t *testing.T, base, offset uint32, channel uint8) *SweepBlock {
	t.Helper()
	id := &Identity{Channel: channel}

	b := NewSweepBlock()
	b.Push(testPulse(0, base, offset, id))
	b.Push(testPulse(1, base+40, 0, id))
	b.Push(testPulse(2, base+80, 0, id))
	b.Push(testPulse(3, base+120, 0, nil))
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return b
}

func TestTrackerPairsAndResets(t *testing.T) {
	tr := NewBeaconTracker(3)

	first := finalizedBlock(t, 1000, 80000, 3)
	angles, err := tr.Push(first)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles != nil {
		t.Fatal("first block alone must not produce a result")
	}

	second := finalizedBlock(t, 150000, 250000, 3)
	angles, err = tr.Push(second)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles == nil {
		t.Fatal("expected a result from the sweep pair")
	}
	if angles.Channel != 3 {
		t.Errorf("result channel = %d, want 3", angles.Channel)
	}

	// The tracker must be back in the empty state: a third block is a new
	// candidate first sweep, not a partner for anything stale.
	angles, err = tr.Push(finalizedBlock(t, 300000, 80000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles != nil {
		t.Fatal("tracker did not return to the empty state after emitting")
	}
}

func TestTrackerRearmsOnOffsetRegression(t *testing.T) {
	tr := NewBeaconTracker(3)

	tr.Push(finalizedBlock(t, 1000, 250000, 3))

	// Sensor 0's offset decreases: the pending block cannot be the first
	// sweep of this revolution. No result; the new block replaces it.
	replacement := finalizedBlock(t, 150000, 80000, 3)
	angles, err := tr.Push(replacement)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles != nil {
		t.Fatal("offset regression must not produce a result")
	}

	// Pairing now happens against the replacement, not the original: this
	// block is a valid second sweep for the replacement only.
	angles, err = tr.Push(finalizedBlock(t, 260000, 250000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles == nil {
		t.Fatal("expected the replacement pending block to pair")
	}
}

func TestTrackerRearmsOnStaleTimestamp(t *testing.T) {
	tr := NewBeaconTracker(3)

	tr.Push(finalizedBlock(t, 1000, 80000, 3))

	// More than 220000 ticks later: past half a rotation, cannot be the
	// second plane of the same revolution.
	angles, err := tr.Push(finalizedBlock(t, 300000, 250000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles != nil {
		t.Fatal("blocks further than half a rotation apart must not pair")
	}

	// The fresh block became pending and pairs normally.
	angles, err = tr.Push(finalizedBlock(t, 400000, 260000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles == nil {
		t.Fatal("expected the re-armed block to pair")
	}
}

func TestTrackerChannelMismatch(t *testing.T) {
	tr := NewBeaconTracker(3)

	_, err := tr.Push(finalizedBlock(t, 1000, 80000, 5))
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("Push = %v, want ErrChannelMismatch", err)
	}

	// The mismatched block must not have become pending.
	angles, err := tr.Push(finalizedBlock(t, 150000, 250000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles != nil {
		t.Fatal("tracker should have been empty after the mismatched block")
	}
}

func TestTrackerBoundaryDelta(t *testing.T) {
	tr := NewBeaconTracker(3)

	// Exactly 220000 ticks apart is still a valid pair (the bound is
	// exclusive).
	tr.Push(finalizedBlock(t, 1000, 80000, 3))
	angles, err := tr.Push(finalizedBlock(t, 221000, 250000, 3))
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if angles == nil {
		t.Fatal("delta of exactly 220000 ticks must still pair")
	}
}

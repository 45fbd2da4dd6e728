package lighthouse

import "errors"

const (
	// NumSensors is the number of photodiodes on the deck.
	NumSensors = 4

	// NumChannels is the number of beacon channels the protocol supports.
	NumChannels = 16
)

// Enumerated reasons for discarding a sweep block during finalization.
// Discards are expected under pulse loss and are never fatal; the enumerated
// errors exist so callers and tests can tell why a block was dropped.
var (
	ErrIncompleteBlock          = errors.New("lighthouse: sensor missing from sweep block")
	ErrConflictingIdentity      = errors.New("lighthouse: sensors decoded conflicting identities")
	ErrIdentityCount            = errors.New("lighthouse: decoded identity count is not 3")
	ErrNoOffsetReference        = errors.New("lighthouse: no sensor carries an offset reference")
	ErrDuplicateOffsetReference = errors.New("lighthouse: more than one sensor carries an offset reference")
)

// SweepBlock collects the pulses of one laser-plane pass across the four
// sensors. The aggregator fills it incrementally and finalizes it exactly
// once; a finalized block satisfies:
//
//   - all four sensor slots filled
//   - exactly three pulses decoded an identity, all agreeing
//   - exactly one pulse carries a nonzero raw offset (the reference sensor)
//   - every other pulse's offset rewritten relative to that reference
type SweepBlock struct {
	Sensors [NumSensors]*PulseEvent

	// Derived by Finalize.
	Channel      uint8
	SlowBit      bool
	Timestamp    uint32 // earliest sensor timestamp in the block
	OffsetSensor int    // index of the reference sensor

	valid bool
}

// NewSweepBlock returns an empty block ready for pulses.
func NewSweepBlock() *SweepBlock {
	return &SweepBlock{OffsetSensor: -1}
}

// Push places ev into its sensor slot. It returns false when the slot is
// already occupied, which means two pulses for one sensor arrived inside one
// aggregation window; the caller treats that as unrecoverable corruption for
// the whole block.
func (b *SweepBlock) Push(ev PulseEvent) bool {
	if b.Sensors[ev.Sensor] != nil {
		return false
	}
	b.Sensors[ev.Sensor] = &ev
	return true
}

// Valid reports whether Finalize succeeded on this block.
func (b *SweepBlock) Valid() bool { return b.valid }

// Finalize validates the block and derives its channel, reference sensor,
// back-filled offsets, and block timestamp. On failure the block is left
// invalid and the returned error names the discard reason.
func (b *SweepBlock) Finalize() error {
	for _, s := range b.Sensors {
		if s == nil {
			return ErrIncompleteBlock
		}
	}

	// Exactly three sensors should have decoded the identity and they must
	// agree; the fourth routinely fails the polynomial lock.
	identityCount := 0
	var identity *Identity
	for _, s := range b.Sensors {
		if s.Identity == nil {
			continue
		}
		identityCount++
		if identity == nil {
			identity = s.Identity
			continue
		}
		if s.Identity.Channel != identity.Channel || s.Identity.SlowBit != identity.SlowBit {
			return ErrConflictingIdentity
		}
	}
	if identityCount != 3 {
		return ErrIdentityCount
	}

	// Exactly one sensor reports the raw sweep offset; the hardware emits
	// zero on the others.
	offsetSensor := -1
	for i, s := range b.Sensors {
		if s.Offset == 0 {
			continue
		}
		if offsetSensor >= 0 {
			return ErrDuplicateOffsetReference
		}
		offsetSensor = i
	}
	if offsetSensor < 0 {
		return ErrNoOffsetReference
	}

	b.Channel = identity.Channel
	b.SlowBit = identity.SlowBit
	b.OffsetSensor = offsetSensor

	// Propagate the resolved identity and reconstruct the missing offsets
	// from the timestamp delta to the reference sensor.
	ref := b.Sensors[offsetSensor]
	for _, s := range b.Sensors {
		s.Identity = &Identity{Channel: b.Channel, SlowBit: b.SlowBit}
		if s.Offset == 0 {
			s.Offset = TickAdd(ref.Offset, TickSub(s.Timestamp, ref.Timestamp))
		}
	}

	// Plain numeric minimum. If two timestamps straddle the 2^24 counter
	// wrap inside one block this can pick the wrong sensor as earliest; the
	// upstream design leaves that ambiguity unresolved and so do we.
	b.Timestamp = b.Sensors[0].Timestamp
	for _, s := range b.Sensors[1:] {
		if s.Timestamp < b.Timestamp {
			b.Timestamp = s.Timestamp
		}
	}

	b.valid = true
	return nil
}

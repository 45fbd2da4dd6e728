package lighthouse

import (
	"errors"
	"fmt"
)

// Lighthouse deck UART frame layout (12 bytes, little-endian 24-bit words):
//
//	├── first_word [0:3)  - bits 0-1 sensor id, bits 2-6 identity,
//	│                       bit 7 poly-not-ok flag, bits 8-23 pulse width
//	├── offset     [3:6)  - sweep offset in 6 MHz units (0xFFFFFF = sync frame)
//	├── beam_word  [6:9)  - reserved, not parsed
//	└── timestamp  [9:12) - pulse timestamp in 24 MHz units
//
// The offset uses a 6 MHz clock while the timestamp uses 24 MHz, so the
// decoder rescales the offset by 4 to keep all tick arithmetic in one clock
// domain.

const (
	// FrameSize is the fixed length of one deck record.
	FrameSize = 12

	// syncOffset marks a synchronization/filler frame carrying no pulse.
	syncOffset = 0xFFFFFF
)

// ErrShortFrame reports a frame shorter than FrameSize. A short read mid
// stream means framing is lost, so the decode loop treats it as fatal.
var ErrShortFrame = errors.New("lighthouse: short frame")

// le24 decodes a little-endian 24-bit word.
func le24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// DecodeFrame parses one 12-byte deck record into a PulseEvent. The second
// return is false for sync/filler frames, which carry no pulse and must be
// skipped. Input shorter than FrameSize returns ErrShortFrame.
func DecodeFrame(b []byte) (PulseEvent, bool, error) {
	if len(b) < FrameSize {
		return PulseEvent{}, false, fmt.Errorf("%w: got %d bytes, want %d", ErrShortFrame, len(b), FrameSize)
	}

	offsetRaw := le24(b[3:6])
	if offsetRaw == syncOffset {
		return PulseEvent{}, false, nil
	}

	firstWord := le24(b[0:3])

	ev := PulseEvent{
		Sensor:    int(firstWord & 0x03),
		Timestamp: le24(b[9:12]),
		Width:     uint16((firstWord >> 8) & 0xFFFF),
		Offset:    offsetRaw * 4, // 6 MHz -> 24 MHz
	}

	// Bit 7 set means the FPGA failed to lock the identity polynomial for
	// this pulse. That happens routinely on one of the visible sensors per
	// sweep and is not an error; the identity is simply absent.
	if (firstWord>>7)&0x01 == 0 {
		identity := (firstWord >> 2) & 0x1F
		ev.Identity = &Identity{
			Channel: uint8(identity >> 1),
			SlowBit: identity&1 == 1,
		}
	}

	return ev, true, nil
}

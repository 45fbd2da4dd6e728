package lighthouse

// Frame encoding exists for tooling that synthesizes deck captures (replay
// fixtures, dev mode). The deck itself only ever emits frames.

// putLE24 writes v as a little-endian 24-bit word.
func putLE24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// EncodeFrame serializes a pulse event into the 12-byte wire format. The
// offset must be a multiple of 4: the wire carries it in 6 MHz units while
// the event holds 24 MHz ticks.
func EncodeFrame(ev PulseEvent) []byte {
	frame := make([]byte, FrameSize)

	firstWord := uint32(ev.Sensor) & 0x03
	if ev.Identity == nil {
		firstWord |= 1 << 7
	} else {
		identity := uint32(ev.Identity.Channel) << 1
		if ev.Identity.SlowBit {
			identity |= 1
		}
		firstWord |= (identity & 0x1F) << 2
	}
	firstWord |= uint32(ev.Width) << 8

	putLE24(frame[0:3], firstWord)
	putLE24(frame[3:6], (ev.Offset/4)&TickMask)
	putLE24(frame[9:12], ev.Timestamp&TickMask)
	return frame
}

// SyncFrame returns the all-ones filler record the deck emits for frame
// alignment.
func SyncFrame() []byte {
	frame := make([]byte, FrameSize)
	for i := range frame {
		frame[i] = 0xFF
	}
	return frame
}

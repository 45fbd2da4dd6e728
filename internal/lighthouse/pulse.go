package lighthouse

// Identity is the per-pulse beacon identity recovered from the sweep's
// modulated carrier: the transmitting channel plus the auxiliary slow bit.
// The deck only manages to decode it on some of the sensors for any given
// sweep, so pulses carry it as an optional.
type Identity struct {
	Channel uint8 // 0..15
	SlowBit bool
}

// PulseEvent is one photodiode pulse as reported by the deck: which sensor
// saw the laser plane, when, for how long, and (when the decode succeeded)
// which beacon produced it. Timestamp and Offset are both in 24 MHz ticks
// on the wrapping 24-bit counter.
type PulseEvent struct {
	Sensor    int    // 0..3
	Timestamp uint32 // 24-bit, 24 MHz
	Width     uint16
	Offset    uint32 // 24-bit, 24 MHz; zero means "no offset reference on this sensor"
	Identity  *Identity
}

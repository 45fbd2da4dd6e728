package lighthouse

// The base station deck timestamps pulses with a free-running 24-bit counter
// clocked at 24 MHz, so every delta or reconstructed offset has to be computed
// modulo 2^24. Plain integer subtraction across a counter wrap would produce
// a huge bogus delta and break both the sweep-gap heuristic and the offset
// back-fill, so all timestamp math in this package goes through TickAdd and
// TickSub.

const (
	// TickMask masks a value to the 24-bit counter domain.
	TickMask = (1 << 24) - 1

	// TickRate is the counter clock in Hz.
	TickRate = 24_000_000
)

// TickAdd returns a+b modulo 2^24.
func TickAdd(a, b uint32) uint32 {
	return (a + b) & TickMask
}

// TickSub returns a-b modulo 2^24. The result is always in [0, 2^24), even
// when the counter wrapped between b and a.
func TickSub(a, b uint32) uint32 {
	return (a - b) & TickMask
}

package lighthouse

import (
	"math"
	"testing"
)

func TestRotationPeriods(t *testing.T) {
	// The table is the hardware's documented 48 MHz cycle counts divided by
	// two for the 24 MHz sampling clock. Pin both ends and one middle entry.
	tests := []struct {
		channel uint8
		want    float64
	}{
		{0, 959000.0 / 2},
		{3, 949000.0 / 2},
		{15, 887000.0 / 2},
	}
	for _, tt := range tests {
		if got := RotationPeriod(tt.channel); got != tt.want {
			t.Errorf("RotationPeriod(%d) = %v, want %v", tt.channel, got, tt.want)
		}
	}

	// Periods shrink monotonically with the channel index.
	for ch := 1; ch < NumChannels; ch++ {
		if periods[ch] >= periods[ch-1] {
			t.Errorf("period[%d] = %v not below period[%d] = %v", ch, periods[ch], ch-1, periods[ch-1])
		}
	}
}

func TestCalculateAEHalfRotation(t *testing.T) {
	// firstBeam 0 and secondBeam pi is the documented boundary case:
	// azimuth (0+pi)/2 - pi = -pi/2, beta = pi - 2pi/3 = pi/3, and
	// elevation = atan(sin(pi/6)/tan(pi/6)).
	got := calculateAE(0, math.Pi)

	if math.Abs(got.Azimuth-(-math.Pi/2)) > 1e-12 {
		t.Errorf("azimuth = %v, want %v", got.Azimuth, -math.Pi/2)
	}

	wantElevation := math.Atan(math.Sin(math.Pi/6) / math.Tan(math.Pi/6))
	if math.Abs(got.Elevation-wantElevation) > 1e-12 {
		t.Errorf("elevation = %v, want %v", got.Elevation, wantElevation)
	}
}

// TestCalculateAEExactFormula pins the full formula against literal inputs
// because the constants 2pi/3 and pi/6 encode the beacon's fixed optical
// geometry and must never drift.
func TestCalculateAEExactFormula(t *testing.T) {
	cases := []struct{ first, second float64 }{
		{0, math.Pi},
		{0.5, 2.7},
		{math.Pi / 3, math.Pi},
		{1.0, 1.0 + 2*math.Pi/3}, // beta = 0: elevation exactly 0
	}

	for _, c := range cases {
		got := calculateAE(c.first, c.second)

		wantAzimuth := (c.first+c.second)/2 - math.Pi
		beta := (c.second - c.first) - 2*math.Pi/3
		wantElevation := math.Atan(math.Sin(beta/2) / math.Tan(math.Pi/6))

		if got.Azimuth != wantAzimuth {
			t.Errorf("calculateAE(%v, %v) azimuth = %v, want %v", c.first, c.second, got.Azimuth, wantAzimuth)
		}
		if got.Elevation != wantElevation {
			t.Errorf("calculateAE(%v, %v) elevation = %v, want %v", c.first, c.second, got.Elevation, wantElevation)
		}
	}
}

func TestComputeAnglesHalfPeriodOffsets(t *testing.T) {
	// For every channel: offsets (x, x + period/2) give beams (a, a+pi).
	// Use a tiny first offset (zero offsets cannot appear in finalized
	// blocks) and verify against the formula at each period boundary.
	for ch := uint8(0); ch < NumChannels; ch++ {
		period := RotationPeriod(ch)
		firstOffset := uint32(4)
		secondOffset := uint32(4 + period/2)

		first := finalizedBlock(t, 1000, firstOffset, ch)
		second := finalizedBlock(t, 200000, secondOffset, ch)

		got := computeAngles(first, second, ch)

		firstBeam := float64(firstOffset) / period * 2 * math.Pi
		secondBeam := float64(secondOffset) / period * 2 * math.Pi
		want := calculateAE(firstBeam, secondBeam)

		if math.Abs(got.Sensors[0].Azimuth-want.Azimuth) > 1e-12 ||
			math.Abs(got.Sensors[0].Elevation-want.Elevation) > 1e-12 {
			t.Errorf("channel %d: sensor 0 = %+v, want %+v", ch, got.Sensors[0], want)
		}
		if got.Channel != ch {
			t.Errorf("result channel = %d, want %d", got.Channel, ch)
		}
	}
}

// TestComputeAnglesDeterminism verifies compute is a pure function: same
// blocks in, same angles out.
func TestComputeAnglesDeterminism(t *testing.T) {
	first := finalizedBlock(t, 1000, 80000, 3)
	second := finalizedBlock(t, 150000, 250000, 3)

	a := computeAngles(first, second, 3)
	b := computeAngles(first, second, 3)

	if a != b {
		t.Errorf("computeAngles not deterministic: %+v vs %+v", a, b)
	}
}

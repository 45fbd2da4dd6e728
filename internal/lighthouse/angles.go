package lighthouse

import "math"

// Rotation periods per beacon channel in 24 MHz ticks. The base stations
// document their cycle times in a 48 MHz clock; the deck samples at 24 MHz,
// hence the / 2.
var periods = [NumChannels]float64{
	959000.0 / 2, 957000.0 / 2,
	953000.0 / 2, 949000.0 / 2,
	947000.0 / 2, 943000.0 / 2,
	941000.0 / 2, 939000.0 / 2,
	937000.0 / 2, 929000.0 / 2,
	919000.0 / 2, 911000.0 / 2,
	907000.0 / 2, 901000.0 / 2,
	893000.0 / 2, 887000.0 / 2,
}

// RotationPeriod returns the documented rotation period of a beacon channel
// in 24 MHz ticks.
func RotationPeriod(channel uint8) float64 {
	return periods[channel]
}

// AnglePair is one sensor's direction to the beacon, in radians.
type AnglePair struct {
	Azimuth   float64
	Elevation float64
}

// SweepAngles is the decoded result of one full beacon revolution: a
// direction for each of the four sensors, tagged with the emitting channel.
type SweepAngles struct {
	Channel uint8
	SlowBit bool
	Sensors [NumSensors]AnglePair
}

// The two laser planes of a base station are tilted +30 and -30 degrees from
// vertical, 120 degrees apart around the rotor. These constants encode that
// fixed optical geometry and must not be tuned.
const (
	planeSeparation = 2 * math.Pi / 3 // 120 degrees between the plane passes
	halfTiltAngle   = math.Pi / 6     // half the 60 degree skew between planes
)

// beamAngle maps an offset-within-rotation to the angular position of the
// rotating plane when it crossed the sensor.
func beamAngle(offset uint32, period float64) float64 {
	return float64(offset) / period * 2 * math.Pi
}

// calculateAE converts the angular positions of the two plane crossings into
// azimuth and elevation.
func calculateAE(firstBeam, secondBeam float64) AnglePair {
	azimuth := (firstBeam+secondBeam)/2 - math.Pi
	beta := (secondBeam - firstBeam) - planeSeparation
	elevation := math.Atan(math.Sin(beta/2) / math.Tan(halfTiltAngle))
	return AnglePair{Azimuth: azimuth, Elevation: elevation}
}

// computeAngles derives per-sensor azimuth/elevation from the two sweep
// blocks of one revolution. Pure function of its inputs.
func computeAngles(first, second *SweepBlock, channel uint8) SweepAngles {
	result := SweepAngles{Channel: channel, SlowBit: first.SlowBit}
	period := periods[channel]

	for i := 0; i < NumSensors; i++ {
		firstBeam := beamAngle(first.Sensors[i].Offset, period)
		secondBeam := beamAngle(second.Sensors[i].Offset, period)
		result.Sensors[i] = calculateAE(firstBeam, secondBeam)
	}

	return result
}

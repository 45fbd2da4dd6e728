// Command gen-capture generates a synthetic deck capture for testing replay
// and the offline analysis tooling without base-station hardware.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/banshee-data/lighthouse/internal/lighthouse"
)

var (
	output      = flag.String("o", "sample.lhcap", "output path")
	revolutions = flag.Int("n", 100, "number of revolutions")
	channel     = flag.Int("channel", 3, "beacon channel (0-15)")
	firstOffset = flag.Uint("first-offset", 100000, "first sweep offset of sensor 0 in 24 MHz ticks (multiple of 4)")
	sweepDelta  = flag.Uint("sweep-delta", 150000, "ticks between the two plane passes (multiple of 4, <= 220000)")
)

// writeSweep emits one plane pass: four sensor pulses 40 ticks apart, the
// offset reference on sensor 0, identity decoded on sensors 0-2.
func writeSweep(w *bufio.Writer, base, offset uint32, channel uint8) {
	id := &lighthouse.Identity{Channel: channel}
	for sensor := 0; sensor < lighthouse.NumSensors; sensor++ {
		ev := lighthouse.PulseEvent{
			Sensor:    sensor,
			Timestamp: (base + uint32(sensor)*40) & lighthouse.TickMask,
			Width:     120,
			Identity:  id,
		}
		if sensor == 0 {
			ev.Offset = offset
		}
		if sensor == 3 {
			ev.Identity = nil
		}
		w.Write(lighthouse.EncodeFrame(ev))
	}
}

func main() {
	flag.Parse()

	if *channel < 0 || *channel >= lighthouse.NumChannels {
		log.Fatalf("channel %d out of range", *channel)
	}
	if *firstOffset%4 != 0 || *sweepDelta%4 != 0 {
		log.Fatal("offsets must be multiples of 4 to survive the 6 MHz wire encoding")
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.Write(lighthouse.SyncFrame())

	ch := uint8(*channel)
	period := uint32(lighthouse.RotationPeriod(ch))
	base := uint32(1000)
	for i := 0; i < *revolutions; i++ {
		writeSweep(w, base, uint32(*firstOffset), ch)
		writeSweep(w, base+uint32(*sweepDelta), uint32(*firstOffset)+uint32(*sweepDelta), ch)
		base = (base + period) & lighthouse.TickMask
	}

	// A trailing identityless pulse past the sweep gap lets the aggregator
	// close the final revolution's second block on replay; sync frames
	// would be skipped without advancing the arrival clock.
	w.Write(lighthouse.EncodeFrame(lighthouse.PulseEvent{
		Sensor:    0,
		Timestamp: base & lighthouse.TickMask,
		Width:     120,
	}))

	if err := w.Flush(); err != nil {
		log.Fatalf("failed to write capture: %v", err)
	}
	log.Printf("wrote %d revolutions on channel %d to %s", *revolutions, *channel, *output)
}

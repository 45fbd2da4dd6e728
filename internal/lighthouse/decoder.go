// Package lighthouse decodes the raw optical-sweep telemetry of Lighthouse
// V2 base stations into per-sensor azimuth/elevation angles.
//
// A base station sweeps two tilted laser planes across the deck's four
// photodiodes; the deck reports each plane crossing as a fixed 12-byte pulse
// record. The decode pipeline runs strictly forward:
//
//	frame -> PulseEvent -> PulseAggregator -> SweepBlock
//	      -> BeaconTracker (per channel)   -> SweepAngles
//
// The stream is lossy and unordered with respect to beacons, so every stage
// drops and resynchronizes rather than attempting repair: sweep blocks that
// fail validation are discarded, and a tracker whose pending first sweep
// turns stale simply re-arms on the freshest block.
package lighthouse

import (
	"errors"
	"io"

	"github.com/banshee-data/lighthouse/internal/monitoring"
)

// Decoder is the full pipeline: one pulse aggregator feeding sixteen
// per-channel beacon trackers. It processes a single logical stream and is
// not safe for concurrent use; the aggregation heuristic depends on global
// pulse arrival order.
type Decoder struct {
	aggregator *PulseAggregator
	trackers   [NumChannels]*BeaconTracker
}

// NewDecoder returns a pipeline with empty state for all channels.
func NewDecoder() *Decoder {
	d := &Decoder{aggregator: NewPulseAggregator()}
	for ch := range d.trackers {
		d.trackers[ch] = NewBeaconTracker(uint8(ch))
	}
	return d
}

// PushFrame feeds one 12-byte deck record through the pipeline. It returns
// a non-nil result when the frame completes a revolution pair for some
// channel. Sync frames and frames that merely advance aggregation state
// return (nil, nil). The only error is ErrShortFrame.
func (d *Decoder) PushFrame(frame []byte) (*SweepAngles, error) {
	ev, ok, err := DecodeFrame(frame)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.PushPulse(ev), nil
}

// PushPulse feeds one decoded pulse through the aggregator and, when a sweep
// block completes, through its channel's tracker.
func (d *Decoder) PushPulse(ev PulseEvent) *SweepAngles {
	block := d.aggregator.Push(ev)
	if block == nil {
		return nil
	}

	angles, err := d.trackers[block.Channel].Push(block)
	if err != nil {
		monitoring.Logf("dropping sweep block: %v", err)
		return nil
	}
	return angles
}

// Run decodes 12-byte frames from r until end of stream, calling emit for
// every completed revolution. The reader must already be frame-aligned (see
// framemux.Sync). A clean EOF on a frame boundary returns nil; a truncated
// final frame returns ErrShortFrame.
func (d *Decoder) Run(r io.Reader, emit func(SweepAngles)) error {
	frame := make([]byte, FrameSize)
	for {
		if _, err := io.ReadFull(r, frame); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return ErrShortFrame
			}
			return err
		}

		angles, err := d.PushFrame(frame)
		if err != nil {
			return err
		}
		if angles != nil && emit != nil {
			emit(*angles)
		}
	}
}

package framemux

import (
	"io"
	"time"
)

// MockFramePort implements FramePorter over a pre-recorded capture. It
// replays the capture once and then blocks, like a deck that went quiet.
type MockFramePort struct {
	io.Reader
	closed chan struct{}
}

func (m *MockFramePort) Close() error {
	select {
	case <-m.closed:
	default:
		close(m.closed)
	}
	return nil
}

// NewMockFrameMux creates a FrameMux backed by a mock port that feeds the
// given capture bytes, prefixed with a sync pattern so Monitor can align.
// The capture is streamed in small chunks to exercise partial reads.
func NewMockFrameMux(capture []byte) *FrameMux[*MockFramePort] {
	r, w := io.Pipe()
	port := &MockFramePort{Reader: r, closed: make(chan struct{})}

	go func() {
		defer w.Close()
		if _, err := w.Write(syncPattern[:]); err != nil {
			return
		}
		for len(capture) > 0 {
			n := 36 // three frames per write, deliberately unaligned with reads
			if n > len(capture) {
				n = len(capture)
			}
			select {
			case <-port.closed:
				return
			default:
			}
			if _, err := w.Write(capture[:n]); err != nil {
				return
			}
			capture = capture[n:]
			time.Sleep(time.Millisecond)
		}
	}()

	return NewFrameMux(port)
}

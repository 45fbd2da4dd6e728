// Package framemux provides an abstraction over the lighthouse deck serial
// port: it byte-aligns the incoming stream, slices it into fixed 12-byte
// pulse records, and fans the records out to multiple subscribers.
package framemux

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/lighthouse/internal/lighthouse"
)

// syncPattern is the deck's frame-alignment marker: twelve consecutive 0xFF
// bytes, equal to one all-ones sync frame.
var syncPattern = [lighthouse.FrameSize]byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// Sync consumes bytes from r until a full sync pattern has passed through a
// rolling 12-byte window. On return the reader is positioned on a frame
// boundary. An exhausted reader returns the underlying read error (io.EOF
// when the stream ended before alignment was found).
func Sync(r *bufio.Reader) error {
	var window [lighthouse.FrameSize]byte
	for window != syncPattern {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		copy(window[:], window[1:])
		window[len(window)-1] = b
	}
	return nil
}

// FrameMux multiplexes frame-aligned deck records to multiple subscribers.
type FrameMux[T FramePorter] struct {
	port         T
	subscribers  map[string]chan []byte
	subscriberMu sync.Mutex
	closing      bool
	closingMu    sync.Mutex
}

// FrameMuxInterface defines the interface for the FrameMux type.
type FrameMuxInterface interface {
	// Subscribe creates a new channel receiving 12-byte frames from the
	// port. The returned ID identifies the channel when unsubscribing.
	Subscribe() (string, chan []byte)
	// Unsubscribe removes a channel from the list of subscribers.
	Unsubscribe(string)
	// Monitor aligns the byte stream and forwards frames to subscribers
	// until the context is cancelled or the port fails.
	Monitor(context.Context) error
	// Close closes all subscribed channels and the underlying port.
	Close() error
}

// NewFrameMux creates a FrameMux backed by the given port.
func NewFrameMux[T FramePorter](port T) *FrameMux[T] {
	return &FrameMux[T]{
		port:        port,
		subscribers: make(map[string]chan []byte),
	}
}

func (m *FrameMux[T]) Subscribe() (string, chan []byte) {
	id := uuid.New().String()
	ch := make(chan []byte)
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	m.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber from the mux.
func (m *FrameMux[T]) Unsubscribe(id string) {
	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	if ch, ok := m.subscribers[id]; ok {
		close(ch)
		delete(m.subscribers, id)
	}
}

// Monitor scans the port for the sync pattern, then reads fixed 12-byte
// frames and sends a copy of each to every subscriber. Subscribers that are
// not keeping up are skipped rather than blocking the read loop.
func (m *FrameMux[T]) Monitor(ctx context.Context) error {
	reader := bufio.NewReader(m.port)

	if err := Sync(reader); err != nil {
		return err
	}

	frameChan := make(chan []byte)
	readErrChan := make(chan error, 1)

	// Reads block in their own goroutine so the outer loop stays responsive
	// to context cancellation.
	go func() {
		defer close(frameChan)
		for {
			frame := make([]byte, lighthouse.FrameSize)
			if _, err := io.ReadFull(reader, frame); err != nil {
				select {
				case readErrChan <- err:
				case <-ctx.Done():
				}
				return
			}
			select {
			case frameChan <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErrChan:
			if err == io.EOF {
				return nil
			}
			return err

		case frame, ok := <-frameChan:
			if !ok {
				// The reader goroutine exited; surface its error if it
				// was anything other than end of stream.
				select {
				case err := <-readErrChan:
					if err != io.EOF {
						return err
					}
				default:
				}
				return nil
			}

			m.closingMu.Lock()
			if m.closing {
				m.closingMu.Unlock()
				return nil
			}
			m.closingMu.Unlock()

			m.subscriberMu.Lock()
			for _, ch := range m.subscribers {
				select {
				case ch <- frame:
				default:
					// skip slow subscribers so the read loop never stalls
				}
			}
			m.subscriberMu.Unlock()
		}
	}
}

func (m *FrameMux[T]) Close() error {
	m.closingMu.Lock()
	m.closing = true
	m.closingMu.Unlock()

	m.subscriberMu.Lock()
	defer m.subscriberMu.Unlock()
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	return m.port.Close()
}

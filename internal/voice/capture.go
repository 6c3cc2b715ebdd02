// Package voice owns the spoken half of a session: the capture and
// playback device interfaces and the turn arbiter that interlocks them.
package voice

import (
	"context"
	"fmt"
	"sync"
)

// CaptureEvent is one update from an active capture device: either a new
// partial transcript or a device error.
type CaptureEvent struct {
	Partial string
	Err     error
}

// Capture is a speech-to-text input device. Start begins a capture
// session and returns the event stream; Stop ends it and closes the
// stream. Implementations must make Stop safe to call at any time,
// including before Start and more than once.
type Capture interface {
	Start(ctx context.Context) (<-chan CaptureEvent, error)
	Stop()
}

// TypedCapture is a Capture fed by the terminal input line. The UI
// pushes the in-progress text as the user types, so typing stands in for
// speaking and a typing pause stands in for silence.
type TypedCapture struct {
	mu      sync.Mutex
	events  chan CaptureEvent
	started bool
}

func NewTypedCapture() *TypedCapture {
	return &TypedCapture{}
}

func (c *TypedCapture) Start(ctx context.Context) (<-chan CaptureEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil, fmt.Errorf("capture already started")
	}
	c.started = true
	c.events = make(chan CaptureEvent, 16)
	return c.events, nil
}

// Push delivers the current in-progress text. Calls while the capture is
// stopped are dropped.
func (c *TypedCapture) Push(partial string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	select {
	case c.events <- CaptureEvent{Partial: partial}:
	default:
	}
}

func (c *TypedCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	close(c.events)
	c.events = nil
}

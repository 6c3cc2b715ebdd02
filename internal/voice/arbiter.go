package voice

import (
	"context"
	"strings"
	"sync"
	"time"
)

// State is the arbiter's position in the turn cycle.
type State int

const (
	// StateIdle means neither device is active.
	StateIdle State = iota

	// StateHumanCapturing means the capture device is live and the
	// silence timer governs submission.
	StateHumanCapturing

	// StateModelSpeaking means playback is in progress.
	StateModelSpeaking

	// StateProcessing means an utterance was submitted and the model
	// reply is pending.
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHumanCapturing:
		return "capturing"
	case StateModelSpeaking:
		return "speaking"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Timing defaults. The silence window is how long a pause must last
// before the partial utterance is considered finished; the re-arm delay
// is the natural beat between the model finishing and capture resuming.
const (
	DefaultSilenceWindow = 2 * time.Second
	DefaultRearmDelay    = 500 * time.Millisecond
)

// Option configures an Arbiter.
type Option func(*Arbiter)

func WithSilenceWindow(d time.Duration) Option {
	return func(a *Arbiter) { a.silence = d }
}

func WithRearmDelay(d time.Duration) Option {
	return func(a *Arbiter) { a.rearm = d }
}

// Arbiter enforces the turn-taking contract between the capture and
// playback devices: at most one is ever active. Timers carry a
// generation number; bumping the generation makes any outstanding firing
// a no-op, so a fresh partial or a teardown can never race a stale timer.
type Arbiter struct {
	capture  Capture
	playback Playback
	silence  time.Duration
	rearm    time.Duration

	mu        sync.Mutex
	state     State
	gated     bool
	partial   string
	gen       uint64
	timer     *time.Timer
	closed    bool
	captureCh <-chan CaptureEvent

	ctx       context.Context
	cancelCtx context.CancelFunc
	wg        sync.WaitGroup

	utterances chan string
}

// NewArbiter builds an arbiter over the given devices. It starts idle;
// capture arms only after the first playback completes.
func NewArbiter(capture Capture, playback Playback, opts ...Option) *Arbiter {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Arbiter{
		capture:    capture,
		playback:   playback,
		silence:    DefaultSilenceWindow,
		rearm:      DefaultRearmDelay,
		ctx:        ctx,
		cancelCtx:  cancel,
		utterances: make(chan string, 4),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Utterances returns the stream of finished human utterances. Closed by
// Close.
func (a *Arbiter) Utterances() <-chan string {
	return a.utterances
}

// State returns the current turn state.
func (a *Arbiter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Partial returns the in-progress human utterance, if capturing.
func (a *Arbiter) Partial() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.partial
}

// Speak plays the model's reply. Any active capture stops first; when
// playback completes, capture re-arms after the re-arm delay unless the
// session is gated. Speak returns immediately; playback runs in the
// background.
func (a *Arbiter) Speak(text string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.stopCaptureLocked()
	a.invalidateTimerLocked()
	a.state = StateModelSpeaking
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		a.playback.Speak(a.ctx, text) //nolint:errcheck // a failed utterance still advances the turn

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed || a.state != StateModelSpeaking {
			return
		}
		a.state = StateIdle
		a.scheduleRearmLocked()
	}()
}

// SetGated opens or closes the capture gate. While gated, capture never
// re-arms; gating an active capture stops it.
func (a *Arbiter) SetGated(gated bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.gated == gated {
		return
	}
	a.gated = gated
	if gated {
		a.invalidateTimerLocked()
		a.stopCaptureLocked()
		return
	}
	if a.state == StateIdle {
		a.scheduleRearmLocked()
	}
}

// Close tears the arbiter down synchronously: pending timers are
// cancelled, active capture stops, in-flight playback is aborted, and
// the utterance stream closes. No audio I/O outlives the call.
func (a *Arbiter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.invalidateTimerLocked()
	a.stopCaptureLocked()
	a.mu.Unlock()

	a.playback.Cancel()
	a.cancelCtx()
	a.wg.Wait()
	close(a.utterances)
}

// scheduleRearmLocked starts the delay before capture resumes.
func (a *Arbiter) scheduleRearmLocked() {
	if a.gated {
		return
	}
	a.gen++
	g := a.gen
	a.timer = time.AfterFunc(a.rearm, func() { a.armCapture(g) })
}

// armCapture starts the capture device unless the generation went stale
// in the meantime.
func (a *Arbiter) armCapture(g uint64) {
	a.mu.Lock()
	if a.closed || a.gated || g != a.gen || a.state != StateIdle {
		a.mu.Unlock()
		return
	}

	events, err := a.capture.Start(a.ctx)
	if err != nil {
		a.mu.Unlock()
		return
	}
	a.state = StateHumanCapturing
	a.partial = ""
	a.captureCh = events
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Err != nil {
					a.onCaptureError(events)
					return
				}
				a.onPartial(events, ev.Partial)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// onPartial records the new partial text and restarts the silence timer.
// Events drained from a superseded capture session are ignored.
func (a *Arbiter) onPartial(from <-chan CaptureEvent, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.state != StateHumanCapturing || a.captureCh != from {
		return
	}
	a.partial = text
	a.gen++
	g := a.gen
	a.timer = time.AfterFunc(a.silence, func() { a.onSilence(g) })
}

// onSilence fires when the quiet period elapses. A non-empty partial is
// submitted; an empty one leaves capture running.
func (a *Arbiter) onSilence(g uint64) {
	a.mu.Lock()
	if a.closed || g != a.gen || a.state != StateHumanCapturing {
		a.mu.Unlock()
		return
	}
	text := strings.TrimSpace(a.partial)
	if text == "" {
		a.mu.Unlock()
		return
	}
	a.submitLocked(text)
}

// Flush submits the current partial immediately instead of waiting out
// the silence window. A no-op unless capturing with non-empty text.
func (a *Arbiter) Flush() {
	a.mu.Lock()
	if a.closed || a.state != StateHumanCapturing {
		a.mu.Unlock()
		return
	}
	text := strings.TrimSpace(a.partial)
	if text == "" {
		a.mu.Unlock()
		return
	}
	a.invalidateTimerLocked()
	a.submitLocked(text)
}

// submitLocked hands a finished utterance to the consumer. Called with
// the lock held; releases it.
func (a *Arbiter) submitLocked(text string) {
	a.stopCaptureLocked()
	a.partial = ""
	a.state = StateProcessing
	a.wg.Add(1)
	a.mu.Unlock()

	// Tracked by the WaitGroup so Close never closes the channel under
	// a pending submission.
	go func() {
		defer a.wg.Done()
		select {
		case a.utterances <- text:
		case <-a.ctx.Done():
		}
	}()
}

// onCaptureError drops to idle after a device failure. Capture stays
// down until the next playback cycle re-arms it.
func (a *Arbiter) onCaptureError(from <-chan CaptureEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.captureCh != from {
		return
	}
	a.stopCaptureLocked()
}

func (a *Arbiter) stopCaptureLocked() {
	if a.state != StateHumanCapturing {
		return
	}
	a.capture.Stop()
	a.state = StateIdle
	a.partial = ""
	a.captureCh = nil
}

func (a *Arbiter) invalidateTimerLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

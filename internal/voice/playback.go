package voice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Playback is a text-to-speech output device. Speak blocks until the
// utterance finishes or is cancelled; Cancel aborts any utterance in
// progress.
type Playback interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

// CommandPlayback synthesizes speech by shelling out to a system TTS
// binary: `say` on macOS, `espeak` elsewhere.
type CommandPlayback struct {
	binary string
	args   []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandPlayback picks the platform TTS binary. The error reports a
// missing binary up front rather than on the first Speak.
func NewCommandPlayback() (*CommandPlayback, error) {
	candidates := []string{"espeak", "espeak-ng"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"say"}
	}
	for _, bin := range candidates {
		if _, err := exec.LookPath(bin); err == nil {
			return &CommandPlayback{binary: bin}, nil
		}
	}
	return nil, fmt.Errorf("no speech synthesis binary found (tried %v)", candidates)
}

func (p *CommandPlayback) Speak(ctx context.Context, text string) error {
	text = NormalizeSpeech(text)
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
		cancel()
	}()

	args := append(append([]string(nil), p.args...), text)
	cmd := exec.CommandContext(ctx, p.binary, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil // cancelled, not a device failure
		}
		return fmt.Errorf("%s: %w", p.binary, err)
	}
	return nil
}

func (p *CommandPlayback) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// NullPlayback discards speech. Used when no TTS binary is available and
// in tests.
type NullPlayback struct{}

func (NullPlayback) Speak(context.Context, string) error { return nil }
func (NullPlayback) Cancel()                             {}

package session

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vercus/internal/interview"
	"github.com/abhisek/vercus/internal/router"
	"github.com/abhisek/vercus/internal/screen"
	"github.com/abhisek/vercus/internal/screens/report"
	"github.com/abhisek/vercus/internal/ui/components"
	"github.com/abhisek/vercus/internal/ui/layout"
	"github.com/abhisek/vercus/internal/voice"
)

const spinnerInterval = 150 * time.Millisecond

// SessionScreen drives a live session: it pumps controller events and
// arbiter utterances into the Bubble Tea loop, feeds typed text to the
// capture device, and speaks model turns through playback.
type SessionScreen struct {
	ctrl    *interview.Controller
	capture *voice.TypedCapture
	arbiter *voice.Arbiter

	snap      interview.Snapshot
	input     components.TextInput
	errMsg    string
	busy      bool // a controller call is in flight from this screen
	completed bool
	spinner   int
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen around a not-yet-started controller.
func New(ctrl *interview.Controller, playback voice.Playback) *SessionScreen {
	capture := voice.NewTypedCapture()
	arbiter := voice.NewArbiter(capture, playback)
	return &SessionScreen{
		ctrl:    ctrl,
		capture: capture,
		arbiter: arbiter,
		snap:    ctrl.Snapshot(),
		input:   components.NewTextInput("Say something...", false, 0),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(
		s.start(),
		s.waitForEvent(),
		s.waitForUtterance(),
		s.spinnerTick(),
		s.input.Init(),
	)
}

func (s *SessionScreen) Title() string {
	if s.snap.Mode == interview.ModeTutoring {
		return "Tutoring: " + s.snap.Topic
	}
	return "Interview: " + s.snap.Topic
}

// Status feeds the header's right-hand slot.
func (s *SessionScreen) Status() string {
	switch {
	case s.snap.Phase == interview.PhaseAwaitingModel:
		return "… thinking"
	case s.arbiter.State() == voice.StateModelSpeaking:
		return "▶ speaking"
	case s.arbiter.State() == voice.StateHumanCapturing:
		return "● listening"
	case s.snap.Phase == interview.PhaseStageGate:
		return "◼ stage gate"
	default:
		return ""
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.completed {
		return []layout.KeyHint{
			{Key: "Enter", Description: "View report"},
		}
	}
	if s.snap.Phase == interview.PhaseStageGate {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next stage"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Leave"},
	}
	if s.snap.Mode == interview.ModeTutoring {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "End & evaluate"})
	}
	return hints
}

// Close releases the audio devices and the controller. Called by the
// router when the screen leaves the stack.
func (s *SessionScreen) Close() {
	s.arbiter.Close()
	s.ctrl.Terminate()
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case controllerEventMsg:
		return s.handleEvent(msg.Event)

	case eventsClosedMsg, utterancesClosedMsg:
		return s, nil

	case utteranceMsg:
		s.input.Model.SetValue("")
		text := msg.Text
		return s, tea.Batch(
			func() tea.Msg {
				return submitDoneMsg{Err: s.ctrl.SubmitHumanTurn(context.Background(), text)}
			},
			s.waitForUtterance(),
		)

	case startDoneMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.snap = s.ctrl.Snapshot()
		return s, nil

	case submitDoneMsg, advanceDoneMsg, endDoneMsg:
		s.busy = false
		s.snap = s.ctrl.Snapshot()
		return s, nil

	case spinnerTickMsg:
		s.spinner++
		return s, s.spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		switch {
		case s.completed:
			return s, s.openReport()
		case s.snap.Phase == interview.PhaseStageGate:
			if s.busy {
				return s, nil
			}
			s.busy = true
			return s, func() tea.Msg {
				return advanceDoneMsg{Err: s.ctrl.AdvanceStage(context.Background())}
			}
		default:
			s.arbiter.Flush()
			return s, nil
		}

	case "ctrl+e":
		if s.snap.Mode != interview.ModeTutoring || s.busy || s.completed {
			return s, nil
		}
		s.busy = true
		return s, func() tea.Msg {
			return endDoneMsg{Err: s.ctrl.EndTutoring(context.Background())}
		}
	}

	if s.completed || s.snap.Phase != interview.PhaseAwaitingHuman {
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.capture.Push(s.input.Value())
	return s, cmd
}

func (s *SessionScreen) handleEvent(ev interview.Event) (screen.Screen, tea.Cmd) {
	s.snap = s.ctrl.Snapshot()

	// Capture may only run while a human turn is expected. The gate is
	// derived from the snapshot rather than the event payload, so a
	// coalesced phase event cannot leave it stale.
	s.arbiter.SetGated(s.snap.Phase != interview.PhaseAwaitingHuman)

	switch ev.Kind {
	case interview.EventTranscriptChanged:
		// Playback normalizes the text for synthesis itself.
		if ev.Turn != nil && ev.Turn.Speaker == interview.SpeakerModel {
			s.arbiter.Speak(ev.Turn.Text)
		}

	case interview.EventSessionComplete:
		s.completed = true
	}

	return s, s.waitForEvent()
}

// openReport swaps this screen for the report card. The router closes
// this screen on replace, which stops audio and the controller.
func (s *SessionScreen) openReport() tea.Cmd {
	snap := s.ctrl.Snapshot()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: report.New(snap)}
	}
}

func (s *SessionScreen) start() tea.Cmd {
	return func() tea.Msg {
		return startDoneMsg{Err: s.ctrl.Start(context.Background())}
	}
}

func (s *SessionScreen) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-s.ctrl.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return controllerEventMsg{Event: ev}
	}
}

func (s *SessionScreen) waitForUtterance() tea.Cmd {
	return func() tea.Msg {
		text, ok := <-s.arbiter.Utterances()
		if !ok {
			return utterancesClosedMsg{}
		}
		return utteranceMsg{Text: text}
	}
}

func (s *SessionScreen) spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

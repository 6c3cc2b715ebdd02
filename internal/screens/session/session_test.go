package session

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vercus/internal/interview"
	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/router"
	"github.com/abhisek/vercus/internal/screens/report"
	"github.com/abhisek/vercus/internal/voice"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testSessionScreen(t *testing.T, mode interview.Mode, responses ...llm.MockResponse) (*SessionScreen, *interview.Controller) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	cfg := interview.Config{
		Mode:       mode,
		Topic:      "Go",
		Difficulty: interview.DifficultyMedium,
	}
	if mode == interview.ModeInterview {
		cfg.Persona = persona.Builtin().Resolve("go")
	} else {
		cfg.Tutor = &interview.TutorAgent{
			Name:      "Professor Syntax",
			Role:      "Go Fundamentals Coach",
			Expertise: []string{"Slices"},
		}
	}
	ctrl := interview.NewController(mock, cfg)
	s := New(ctrl, voice.NullPlayback{})
	t.Cleanup(s.Close)
	return s, ctrl
}

// startSession runs the kickoff call and pumps its events through the
// screen, the way the program loop would.
func startSession(t *testing.T, s *SessionScreen, ctrl *interview.Controller) {
	t.Helper()
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for {
		select {
		case ev := <-ctrl.Events():
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func TestSessionScreenTitle(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeInterview)
	if s.Title() != "Interview: Go" {
		t.Errorf("Title = %q, want %q", s.Title(), "Interview: Go")
	}

	tut, _ := testSessionScreen(t, interview.ModeTutoring)
	if tut.Title() != "Tutoring: Go" {
		t.Errorf("Title = %q, want %q", tut.Title(), "Tutoring: Go")
	}
}

func TestSessionScreenViewBeforeStart(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeInterview)
	if s.View(80, 24) == "" {
		t.Error("expected non-empty view before the first turn")
	}
}

func TestSessionScreenViewError(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeInterview)
	s.errMsg = "credential pool exhausted"
	if s.View(80, 24) == "" {
		t.Error("expected non-empty view for error state")
	}
}

func TestSessionScreenTypingFeedsCapture(t *testing.T) {
	s, ctrl := testSessionScreen(t, interview.ModeInterview,
		llm.MockResponse{Text: "Tell me about goroutines."})
	startSession(t, s, ctrl)

	if got := ctrl.Snapshot().Phase; got != interview.PhaseAwaitingHuman {
		t.Fatalf("Phase = %s, want awaiting-human", got)
	}

	s.handleKey(keyPress('h'))
	s.handleKey(keyPress('i'))
	if s.input.Value() != "hi" {
		t.Errorf("input = %q, want %q", s.input.Value(), "hi")
	}
}

func TestSessionScreenTypingIgnoredWhileModelSpeaks(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeInterview)

	// Before Start the phase is not awaiting-human; keystrokes must not
	// reach the input.
	s.handleKey(keyPress('x'))
	if s.input.Value() != "" {
		t.Errorf("input = %q, want empty", s.input.Value())
	}
}

func TestSessionScreenEnterOpensReportWhenComplete(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeInterview)
	s.completed = true

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	repl, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ReplaceScreenMsg", msg)
	}
	if _, ok := repl.Screen.(*report.ReportScreen); !ok {
		t.Fatalf("replacement screen is %T, want report", repl.Screen)
	}
}

func TestSessionScreenUtteranceClearsInput(t *testing.T) {
	s, ctrl := testSessionScreen(t, interview.ModeInterview,
		llm.MockResponse{Text: "Opening question."},
		llm.MockResponse{Text: "Follow-up question."})
	startSession(t, s, ctrl)

	s.input.Model.SetValue("channels are typed pipes")
	_, cmd := s.Update(utteranceMsg{Text: "channels are typed pipes"})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if s.input.Value() != "" {
		t.Errorf("input = %q, want cleared", s.input.Value())
	}
}

func TestSessionScreenKeyHints(t *testing.T) {
	s, _ := testSessionScreen(t, interview.ModeTutoring)
	hints := s.KeyHints()
	found := false
	for _, h := range hints {
		if h.Key == "Ctrl+E" {
			found = true
		}
	}
	if !found {
		t.Error("tutoring hints should offer Ctrl+E")
	}

	s.completed = true
	hints = s.KeyHints()
	if len(hints) != 1 || hints[0].Description != "View report" {
		t.Errorf("completed hints = %+v", hints)
	}
}

func TestGateTracksSnapshotWhenEventsCoalesce(t *testing.T) {
	s, ctrl := testSessionScreen(t, interview.ModeInterview,
		llm.MockResponse{Text: "First question."},
		llm.MockResponse{Text: "Good. [STAGE_COMPLETE]"},
	)
	startSession(t, s, ctrl)

	if err := ctrl.SubmitHumanTurn(context.Background(), "my answer"); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	// Deliver only the model turn, withholding the phase event the
	// controller emitted alongside it. The gate must still follow the
	// stage-gate phase visible in the snapshot.
	for delivered := false; !delivered; {
		select {
		case ev := <-ctrl.Events():
			if ev.Kind == interview.EventTranscriptChanged && ev.Turn != nil && ev.Turn.Speaker == interview.SpeakerModel {
				s.handleEvent(ev)
				delivered = true
			}
		default:
			t.Fatal("no model turn event after submit")
		}
	}

	// Long enough for playback to finish and any re-arm timer to fire.
	time.Sleep(800 * time.Millisecond)
	if got := s.arbiter.State(); got == voice.StateHumanCapturing {
		t.Fatalf("capture re-armed during stage gate, state = %v", got)
	}
}

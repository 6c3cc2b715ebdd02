package interview

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/protocol"
)

func newTestController(t *testing.T, provider llm.Provider, mode Mode) *Controller {
	t.Helper()
	cfg := Config{
		Mode:       mode,
		Topic:      "Go",
		Difficulty: DifficultyMedium,
	}
	if mode == ModeInterview {
		cfg.Persona = persona.Builtin().Resolve("go")
	} else {
		cfg.Tutor = &TutorAgent{
			Name:      "Professor Syntax",
			Role:      "Go Fundamentals Coach",
			Expertise: []string{"Slices", "Maps"},
		}
	}
	c := NewController(provider, cfg)
	t.Cleanup(c.Terminate)
	return c
}

func drainEvents(c *Controller) []Event {
	var events []Event
	for {
		select {
		case ev := <-c.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestStartAppendsOnlyModelTurn(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Hello, I'm Vercus. Tell me about yourself."})
	c := newTestController(t, mock, ModeInterview)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Transcript) != 1 {
		t.Fatalf("transcript has %d turns, want 1 (kickoff prompt must stay hidden)", len(snap.Transcript))
	}
	if snap.Transcript[0].Speaker != SpeakerModel {
		t.Errorf("first visible turn from %v, want model", snap.Transcript[0].Speaker)
	}
	if snap.Phase != PhaseAwaitingHuman {
		t.Errorf("Phase = %s, want awaiting-human", snap.Phase)
	}

	// The kickoff request carries no history; the hidden prompt is the
	// sole message.
	if len(mock.Calls) != 1 || len(mock.Calls[0].Messages) != 1 {
		t.Fatalf("unexpected kickoff request shape: %+v", mock.Calls)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Introduce yourself as Vercus") {
		t.Errorf("kickoff prompt = %q", mock.Calls[0].Messages[0].Content)
	}
	if !strings.Contains(mock.Calls[0].System, "Lead Go Developer") {
		t.Errorf("directive missing persona text")
	}
	if !strings.Contains(mock.Calls[0].System, "Difficulty Level: Medium") {
		t.Errorf("directive missing difficulty")
	}
}

func TestStartTwiceFails(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Hi."})
	c := newTestController(t, mock, ModeInterview)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("second Start() succeeded, want error")
	}
}

func TestGatewayFailureBecomesApologyTurn(t *testing.T) {
	// An empty mock queue fails every call, standing in for a fully
	// exhausted credential pool.
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Opening question."})
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "My answer."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	snap := c.Snapshot()
	last := snap.Transcript[len(snap.Transcript)-1]
	if last.Speaker != SpeakerModel || last.Text != ApologyLine {
		t.Errorf("last turn = %+v, want spoken apology", last)
	}
	if len(snap.Results) != 0 {
		t.Errorf("results = %d, want none after a gateway failure", len(snap.Results))
	}
	if snap.Phase != PhaseAwaitingHuman {
		t.Errorf("Phase = %s, want awaiting-human so the turn is answerable", snap.Phase)
	}
}

func TestHarshFailEndsSession(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome. What is a goroutine?"},
		llm.MockResponse{Text: `I'm sorry, we won't be moving forward. [FAIL]
[STAGE_SUMMARY] {"score": 15, "title": "Not Ready", "feedback": "Could not define a goroutine.", "tips": ["Study concurrency basics"], "remedialTutor": {"name": "Professor Syntax", "role": "Go Fundamentals Coach", "description": "Covers goroutines from scratch.", "expertise": ["Concurrency"]}}`},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "I don't know."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	snap := c.Snapshot()
	if snap.Phase != PhaseFailed {
		t.Fatalf("Phase = %s, want failed", snap.Phase)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(snap.Results))
	}
	r := snap.Results[0]
	if r.Outcome != OutcomeFailed {
		t.Errorf("Outcome = %q, want failed", r.Outcome)
	}
	if r.Score > 49 {
		t.Errorf("Score = %d, want <= 49 on failure", r.Score)
	}
	if r.RemedialTutor == nil || r.RemedialTutor.Name != "Professor Syntax" {
		t.Errorf("RemedialTutor = %+v, want present on failure", r.RemedialTutor)
	}
	if snap.Stage != StageIntro {
		t.Errorf("Stage = %s, want intro (failure never advances)", snap.Stage)
	}
}

func TestFullInterviewToCompletion(t *testing.T) {
	pass := func(score int) llm.MockResponse {
		return llm.MockResponse{Text: `That's good. Let's move on. [STAGE_COMPLETE] [STAGE_SUMMARY] {"score": ` + strconv.Itoa(score) + `, "title": "Strong", "feedback": "Well answered.", "tips": []}`}
	}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome! Tell me about yourself."},
		pass(80),
		llm.MockResponse{Text: "First technical question."},
		pass(90),
		llm.MockResponse{Text: "What are your salary expectations?"},
		pass(85),
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "I have five years of Go experience."); err != nil {
		t.Fatalf("intro answer: %v", err)
	}
	if snap := c.Snapshot(); snap.Phase != PhaseStageGate {
		t.Fatalf("Phase after intro pass = %s, want stage-gate", snap.Phase)
	}

	if err := c.AdvanceStage(ctx); err != nil {
		t.Fatalf("AdvanceStage() error = %v", err)
	}
	snap := c.Snapshot()
	if snap.Stage != StageTechnical {
		t.Fatalf("Stage = %s, want technical", snap.Stage)
	}
	// The transcript restarts with only the new stage's opening line.
	if len(snap.Transcript) != 1 {
		t.Fatalf("transcript length %d after advance, want 1 (cleared)", len(snap.Transcript))
	}

	if err := c.SubmitHumanTurn(ctx, "Channels coordinate goroutines."); err != nil {
		t.Fatalf("technical answer: %v", err)
	}
	if err := c.AdvanceStage(ctx); err != nil {
		t.Fatalf("advance to negotiation: %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "Market rate works for me."); err != nil {
		t.Fatalf("negotiation answer: %v", err)
	}

	snap = c.Snapshot()
	if snap.Phase != PhaseComplete {
		t.Fatalf("Phase = %s, want complete", snap.Phase)
	}
	if len(snap.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(snap.Results))
	}
	score, ok := snap.Results.OverallScore()
	if !ok || score != 85 {
		t.Errorf("overall score = %d, %v, want 85", score, ok)
	}
	if snap.Results.OverallVerdict() != VerdictPassed {
		t.Errorf("verdict = %q, want passed", snap.Results.OverallVerdict())
	}

	if err := c.AdvanceStage(ctx); err == nil {
		t.Error("AdvanceStage() after completion succeeded, want error")
	}
}

func TestAdvanceStageSendsHiddenPrompt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome."},
		llm.MockResponse{Text: "Great. [STAGE_COMPLETE]"},
		llm.MockResponse{Text: "Technical question one."},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "Hello."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}
	if err := c.AdvanceStage(ctx); err != nil {
		t.Fatalf("AdvanceStage() error = %v", err)
	}

	last := mock.LastCall()
	if len(last.Messages) != 1 {
		t.Fatalf("advance request has %d messages, want lone hidden prompt", len(last.Messages))
	}
	if !strings.Contains(last.Messages[0].Content, "SKIP the introduction") {
		t.Errorf("stage kickoff prompt = %q", last.Messages[0].Content)
	}
	if !strings.Contains(last.System, "Technical Interview") {
		t.Errorf("directive not rebuilt for the technical stage")
	}
}

func TestPassWithoutSummaryUsesFallbackScore(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome."},
		llm.MockResponse{Text: "Good. Let's move on. [STAGE_COMPLETE]"},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "An answer."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Results) != 1 {
		t.Fatalf("results = %d, want 1 (terminal action always appends)", len(snap.Results))
	}
	if snap.Results[0].Score != protocol.DefaultPassScore {
		t.Errorf("Score = %d, want fallback %d", snap.Results[0].Score, protocol.DefaultPassScore)
	}
}

func TestHumanHistoryReachesProvider(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Opening question."},
		llm.MockResponse{Text: "Follow-up question."},
		llm.MockResponse{Text: "Another follow-up."},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "First answer."); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "Second answer."); err != nil {
		t.Fatalf("second answer: %v", err)
	}

	last := mock.LastCall()
	// History opens with a synthetic lead-in because the visible
	// transcript starts with a model turn.
	if len(last.Messages) < 4 {
		t.Fatalf("request has %d messages: %+v", len(last.Messages), last.Messages)
	}
	if last.Messages[0].Role != llm.RoleUser || !strings.Contains(last.Messages[0].Content, "Start the Medium interview") {
		t.Errorf("lead-in = %+v", last.Messages[0])
	}
	final := last.Messages[len(last.Messages)-1]
	if final.Role != llm.RoleUser || final.Content != "Second answer." {
		t.Errorf("final message = %+v, want the new utterance", final)
	}
}

func TestEventsEmitted(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome."},
		llm.MockResponse{Text: "Done. [STAGE_COMPLETE] [STAGE_SUMMARY] {\"score\": 75, \"title\": \"t\", \"feedback\": \"f\", \"tips\": []}"},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "Answer."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	events := drainEvents(c)
	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	if !containsKind(kinds, EventTranscriptChanged) {
		t.Error("no transcript-changed event")
	}
	if !containsKind(kinds, EventPhaseChanged) {
		t.Error("no phase-changed event")
	}
	if !containsKind(kinds, EventResultAppended) {
		t.Error("no result-appended event")
	}
}

func TestTutoringZeroParticipation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Hello! What shall we learn about slices today?"})
	c := newTestController(t, mock, ModeTutoring)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.EndTutoring(ctx); err != nil {
		t.Fatalf("EndTutoring() error = %v", err)
	}

	snap := c.Snapshot()
	if snap.Phase != PhaseComplete {
		t.Fatalf("Phase = %s, want complete", snap.Phase)
	}
	if snap.Report == nil {
		t.Fatal("Report = nil")
	}
	if snap.Report.Score != 0 || snap.Report.Passed() {
		t.Errorf("Report = %+v, want scripted zero-score fail", snap.Report)
	}
	if snap.Report.Title != "The Silent Observer" {
		t.Errorf("Title = %q", snap.Report.Title)
	}
	// No evaluation call was made: only the kickoff hit the provider.
	if mock.CallCount() != 1 {
		t.Errorf("provider calls = %d, want 1", mock.CallCount())
	}
}

func TestTutoringEvaluation(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Hi! What would you like to learn about Slices today?"},
		llm.MockResponse{Text: "Exactly right. A slice header holds pointer, length, and capacity."},
		llm.MockResponse{Text: "```json\n{\"status\": \"pass\", \"score\": 88, \"title\": \"Promising Student\", \"feedback\": \"Solid grasp.\", \"strengths\": [\"Curiosity\"], \"weaknesses\": [\"Capacity growth\"], \"recommendedCourses\": [\"Advanced Go\"]}\n```"},
	)
	c := newTestController(t, mock, ModeTutoring)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "How do slices grow?"); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}
	if err := c.EndTutoring(ctx); err != nil {
		t.Fatalf("EndTutoring() error = %v", err)
	}

	snap := c.Snapshot()
	if snap.Report == nil || !snap.Report.Passed() || snap.Report.Score != 88 {
		t.Fatalf("Report = %+v", snap.Report)
	}

	// The evaluation request carries the dialogue plus the end prompt.
	last := mock.LastCall()
	final := last.Messages[len(last.Messages)-1]
	if !strings.Contains(final.Content, "[SYSTEM: END SESSION]") {
		t.Errorf("final message = %q, want evaluation prompt", final.Content)
	}
	if last.System != "" {
		t.Errorf("evaluation call has system text %q, want empty", last.System)
	}
}

func TestTutoringEvaluationFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Hello."},
		llm.MockResponse{Text: "Reply."},
		llm.MockResponse{Text: "this is not json"},
	)
	c := newTestController(t, mock, ModeTutoring)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "Question."); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}
	if err := c.EndTutoring(ctx); err != nil {
		t.Fatalf("EndTutoring() error = %v", err)
	}

	snap := c.Snapshot()
	if snap.Report == nil || snap.Report.Title != "Session Error" {
		t.Errorf("Report = %+v, want fallback error report", snap.Report)
	}
	if snap.Phase != PhaseComplete {
		t.Errorf("Phase = %s, want complete even after report failure", snap.Phase)
	}
}

func TestEmptySpokenReplyStillAnswers(t *testing.T) {
	// A reply that is nothing but a malformed stage tag parses to no
	// spoken text and no action. The transcript must still alternate
	// speakers, so the apology line stands in for the model.
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Opening question."},
		llm.MockResponse{Text: "[STAGE_SUMMARY] not-json"},
		llm.MockResponse{Text: "[STAGE_SUMMARY] still-not-json"},
	)
	c := newTestController(t, mock, ModeInterview)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "first answer"); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "second answer"); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	snap := c.Snapshot()
	for i := 1; i < len(snap.Transcript); i++ {
		if snap.Transcript[i].Speaker == snap.Transcript[i-1].Speaker {
			t.Fatalf("turns %d and %d both from %v", i-1, i, snap.Transcript[i].Speaker)
		}
	}
	last := snap.Transcript[len(snap.Transcript)-1]
	if last.Speaker != SpeakerModel || last.Text != ApologyLine {
		t.Errorf("last turn = %v %q, want model apology", last.Speaker, last.Text)
	}
	if snap.Phase != PhaseAwaitingHuman {
		t.Errorf("Phase = %s, want awaiting-human", snap.Phase)
	}
}

func TestTutoringEmptyReplyBecomesApology(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Welcome."},
		llm.MockResponse{Text: "   "},
	)
	c := newTestController(t, mock, ModeTutoring)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.SubmitHumanTurn(ctx, "What is a slice?"); err != nil {
		t.Fatalf("SubmitHumanTurn() error = %v", err)
	}

	snap := c.Snapshot()
	last := snap.Transcript[len(snap.Transcript)-1]
	if last.Speaker != SpeakerModel || last.Text != ApologyLine {
		t.Errorf("last turn = %v %q, want model apology", last.Speaker, last.Text)
	}
}

func TestTutoringWithoutTutorGetsDefault(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Hello."})
	c := NewController(mock, Config{Mode: ModeTutoring, Topic: "Go"})
	t.Cleanup(c.Terminate)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.Contains(mock.Calls[0].System, "Professor Go") {
		t.Errorf("directive = %q, want default tutor derived from topic", mock.Calls[0].System)
	}
}

func containsKind(kinds []EventKind, k EventKind) bool {
	for _, got := range kinds {
		if got == k {
			return true
		}
	}
	return false
}

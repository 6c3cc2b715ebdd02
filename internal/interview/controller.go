package interview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/protocol"
	"github.com/abhisek/vercus/internal/store"
)

// Mode selects the session flavor.
type Mode int

const (
	// ModeInterview is the staged interview with pass/fail gates.
	ModeInterview Mode = iota

	// ModeTutoring is a free-form mentoring session ended explicitly
	// by the student.
	ModeTutoring
)

func (m Mode) String() string {
	if m == ModeTutoring {
		return "tutoring"
	}
	return "interview"
}

// ApologyLine is spoken in place of a model reply when every credential
// in the pool has failed, or when the reply carries no speakable text.
// The session continues; the turn is answerable.
const ApologyLine = "I'm sorry, I'm having trouble connecting. Please try again."

const eventBuffer = 64

// Config configures one session.
type Config struct {
	Mode       Mode
	Persona    persona.Persona // interview mode
	Tutor      *TutorAgent     // tutoring mode
	Topic      string          // display topic, e.g. "Go"
	Difficulty Difficulty

	// Sampling parameters for every model call.
	MaxTokens         int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64

	// Events, when set, receives session lifecycle records.
	Events store.EventRepo
}

func (c *Config) applyDefaults() {
	if c.Difficulty == "" {
		c.Difficulty = DifficultyMedium
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.TopP == 0 {
		c.TopP = 0.9
	}
	if c.RepetitionPenalty == 0 {
		c.RepetitionPenalty = 1.1
	}
	if c.Mode == ModeTutoring && c.Tutor == nil {
		c.Tutor = &TutorAgent{
			Name:        fmt.Sprintf("Professor %s", c.Topic),
			Role:        fmt.Sprintf("%s Mentor", c.Topic),
			Description: fmt.Sprintf("A patient mentor who teaches %s from the ground up, adapting to the student's pace.", c.Topic),
			Expertise:   []string{c.Topic},
		}
	}
}

// Controller owns one session: its transcript, stage, phase, and result
// log. All exported methods are safe for concurrent use; the phase field
// sequences the exchange cycle, so at most one model call is ever in
// flight.
type Controller struct {
	provider llm.Provider
	cfg      Config
	id       string

	mu         sync.Mutex
	phase      Phase
	stage      Stage
	transcript Transcript
	results    ResultLog
	report     *protocol.TutorReport
	terminated bool

	events chan Event
}

// NewController builds a session controller. The session does nothing
// until Start is called.
func NewController(provider llm.Provider, cfg Config) *Controller {
	cfg.applyDefaults()
	return &Controller{
		provider: provider,
		cfg:      cfg,
		id:       uuid.NewString(),
		events:   make(chan Event, eventBuffer),
	}
}

// ID returns the session's unique identifier.
func (c *Controller) ID() string {
	return c.id
}

// Events returns the channel of session state changes. The channel is
// closed by Terminate.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Snapshot is a point-in-time copy of the session state for rendering.
type Snapshot struct {
	ID         string
	Mode       Mode
	Topic      string
	Difficulty Difficulty
	Stage      Stage
	Phase      Phase
	Transcript Transcript
	Results    ResultLog
	Report     *protocol.TutorReport
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ID:         c.id,
		Mode:       c.cfg.Mode,
		Topic:      c.cfg.Topic,
		Difficulty: c.cfg.Difficulty,
		Stage:      c.stage,
		Phase:      c.phase,
		Transcript: append(Transcript(nil), c.transcript...),
		Results:    append(ResultLog(nil), c.results...),
		Report:     c.report,
	}
}

// Start performs the hidden kickoff turn that elicits the opening line.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseNotStarted {
		c.mu.Unlock()
		return fmt.Errorf("session already started (phase %s)", c.phase)
	}
	c.setPhaseLocked(PhaseAwaitingModel)
	c.mu.Unlock()

	c.recordSessionEvent(ctx, store.SessionEventData{Action: "start"})

	var prompt string
	if c.cfg.Mode == ModeTutoring {
		prompt = tutorKickoffPrompt(*c.cfg.Tutor)
	} else {
		prompt = kickoffPrompt(c.cfg.Difficulty, c.stage, c.cfg.Topic)
	}
	return c.exchange(ctx, prompt, true)
}

// SubmitHumanTurn appends the utterance to the transcript and runs one
// exchange with the model.
func (c *Controller) SubmitHumanTurn(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.phase != PhaseAwaitingHuman {
		c.mu.Unlock()
		return fmt.Errorf("not awaiting a human turn (phase %s)", c.phase)
	}
	c.setPhaseLocked(PhaseAwaitingModel)
	c.appendTurnLocked(SpeakerHuman, text)
	c.mu.Unlock()

	return c.exchange(ctx, text, false)
}

// AdvanceStage moves a gated interview to the next stage, clearing the
// transcript and eliciting the stage's first question.
func (c *Controller) AdvanceStage(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.Mode != ModeInterview {
		c.mu.Unlock()
		return fmt.Errorf("stage advance outside interview mode")
	}
	if c.phase != PhaseStageGate {
		c.mu.Unlock()
		return fmt.Errorf("no stage gate pending (phase %s)", c.phase)
	}
	next, ok := c.stage.Next()
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("no stage after %s", c.stage)
	}
	c.stage = next
	c.transcript = nil
	c.setPhaseLocked(PhaseAwaitingModel)
	c.mu.Unlock()

	return c.exchange(ctx, nextStagePrompt(next), true)
}

// EndTutoring ends a tutoring session and produces the evaluation
// report. A session with zero student participation gets a scripted
// zero-score report without a model call.
func (c *Controller) EndTutoring(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.Mode != ModeTutoring {
		c.mu.Unlock()
		return fmt.Errorf("end-tutoring outside tutoring mode")
	}
	if c.phase.Terminal() {
		c.mu.Unlock()
		return fmt.Errorf("session already ended (phase %s)", c.phase)
	}
	participated := c.transcript.HumanTurns() > 0
	history := append(Transcript(nil), c.transcript...)
	c.mu.Unlock()

	if !participated {
		c.finishTutoring(ctx, &protocol.TutorReport{
			Status:             "fail",
			Score:              0,
			Title:              "The Silent Observer",
			Feedback:           "Session ended without any student participation. No score can be awarded.",
			Strengths:          []string{"None observed"},
			Weaknesses:         []string{"Lack of participation"},
			RecommendedCourses: []string{"Introduction to Active Learning"},
		})
		return nil
	}

	report, err := c.evaluateTutoring(ctx, history)
	if err != nil {
		report = &protocol.TutorReport{
			Status:             "fail",
			Score:              0,
			Title:              "Session Error",
			Feedback:           "Session completed, but report generation failed. Please try again.",
			Strengths:          []string{"Unknown"},
			Weaknesses:         []string{"System Error"},
			RecommendedCourses: []string{"General Review"},
		}
	}
	c.finishTutoring(ctx, report)
	return nil
}

// Terminate ends the session immediately and closes the event channel.
// Any model response still in flight is dropped on arrival.
func (c *Controller) Terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminated {
		return
	}
	c.terminated = true
	close(c.events)
}

// exchange runs one model call and applies the parsed result. Gateway
// failures become a single spoken apology; the session never crashes
// mid-conversation.
func (c *Controller) exchange(ctx context.Context, text string, hidden bool) error {
	req := c.buildRequest(text, hidden)

	purpose := "interview-turn"
	if c.cfg.Mode == ModeTutoring {
		purpose = "tutor-turn"
	}
	resp, err := c.provider.Generate(llm.WithPurpose(ctx, purpose), req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminated {
		return nil
	}

	if err != nil {
		c.appendTurnLocked(SpeakerModel, ApologyLine)
		c.setPhaseLocked(PhaseAwaitingHuman)
		return nil
	}

	if c.cfg.Mode == ModeTutoring {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			text = ApologyLine
		}
		c.appendTurnLocked(SpeakerModel, text)
		c.setPhaseLocked(PhaseAwaitingHuman)
		return nil
	}

	parsed := protocol.Parse(resp.Text)
	spoken := parsed.Spoken
	if spoken == "" && parsed.Action == protocol.ActionNone {
		// The transcript alternates speakers. A reply with no
		// speakable text still needs a model turn, or the human would
		// answer twice in a row and playback would never run.
		spoken = ApologyLine
	}
	if spoken != "" {
		c.appendTurnLocked(SpeakerModel, spoken)
	}

	switch parsed.Action {
	case protocol.ActionPass:
		c.appendResultLocked(ctx, newStageResult(c.stage, parsed.Action, parsed.Summary))
		if c.stage == StageNegotiation {
			c.completeLocked(ctx, PhaseComplete)
		} else {
			c.setPhaseLocked(PhaseStageGate)
		}
	case protocol.ActionFail:
		c.appendResultLocked(ctx, newStageResult(c.stage, parsed.Action, parsed.Summary))
		c.completeLocked(ctx, PhaseFailed)
	default:
		c.setPhaseLocked(PhaseAwaitingHuman)
	}
	return nil
}

// buildRequest maps the per-stage transcript onto the provider role
// vocabulary. The directive always rides as the system entry; the new
// utterance is the final human entry. When the visible history would
// begin with a model turn, a synthetic lead-in user entry is prepended.
func (c *Controller) buildRequest(text string, hidden bool) llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	var system string
	if c.cfg.Mode == ModeTutoring {
		system = buildTutorDirective(*c.cfg.Tutor, c.cfg.Difficulty)
	} else {
		system = buildDirective(c.cfg.Persona, c.cfg.Topic, c.stage, c.cfg.Difficulty)
	}

	var messages []llm.Message
	if !hidden {
		// The final transcript entry is the utterance being sent;
		// everything before it is history.
		history := c.transcript
		if n := len(history); n > 0 && history[n-1].Speaker == SpeakerHuman && history[n-1].Text == text {
			history = history[:n-1]
		}
		if len(history) > 0 && history[0].Speaker == SpeakerModel {
			messages = append(messages, llm.Message{
				Role:    llm.RoleUser,
				Content: historyLeadIn(c.cfg.Difficulty, c.stage, c.cfg.Topic),
			})
		}
		for _, turn := range history {
			role := llm.RoleUser
			if turn.Speaker == SpeakerModel {
				role = llm.RoleAssistant
			}
			messages = append(messages, llm.Message{Role: role, Content: turn.Text})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

	return llm.Request{
		System:            system,
		Messages:          messages,
		MaxTokens:         c.cfg.MaxTokens,
		Temperature:       c.cfg.Temperature,
		TopP:              c.cfg.TopP,
		RepetitionPenalty: c.cfg.RepetitionPenalty,
	}
}

// evaluateTutoring makes the end-of-session evaluation call.
func (c *Controller) evaluateTutoring(ctx context.Context, history Transcript) (*protocol.TutorReport, error) {
	var messages []llm.Message
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Speaker == SpeakerModel {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: protocol.EvaluationPrompt})

	resp, err := c.provider.Generate(llm.WithPurpose(ctx, "tutor-eval"), llm.Request{
		Messages:          messages,
		MaxTokens:         c.cfg.MaxTokens,
		Temperature:       c.cfg.Temperature,
		TopP:              c.cfg.TopP,
		RepetitionPenalty: c.cfg.RepetitionPenalty,
	})
	if err != nil {
		return nil, err
	}
	return protocol.ParseTutorReport(resp.Text)
}

func (c *Controller) finishTutoring(ctx context.Context, report *protocol.TutorReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminated || c.phase.Terminal() {
		return
	}
	c.report = report
	c.phase = PhaseComplete
	c.emitLocked(Event{Kind: EventPhaseChanged, Phase: c.phase})
	c.emitLocked(Event{Kind: EventSessionComplete, Phase: c.phase, Report: report})
	c.recordSessionEventLocked(ctx, store.SessionEventData{
		Action:  "end",
		Outcome: report.Status,
		Score:   report.Score,
	})
}

// completeLocked moves the session to a terminal phase and emits the
// completion event.
func (c *Controller) completeLocked(ctx context.Context, terminal Phase) {
	c.phase = terminal
	c.emitLocked(Event{Kind: EventPhaseChanged, Phase: c.phase})
	c.emitLocked(Event{Kind: EventSessionComplete, Phase: c.phase})

	outcome := "passed"
	score, _ := c.results.OverallScore()
	if terminal == PhaseFailed {
		outcome = "failed"
	}
	c.recordSessionEventLocked(ctx, store.SessionEventData{
		Action:  "end",
		Outcome: outcome,
		Score:   score,
	})
}

func (c *Controller) appendTurnLocked(speaker Speaker, text string) {
	c.transcript = c.transcript.Append(speaker, text)
	turn := c.transcript[len(c.transcript)-1]
	c.emitLocked(Event{Kind: EventTranscriptChanged, Phase: c.phase, Turn: &turn})
}

func (c *Controller) appendResultLocked(ctx context.Context, r StageResult) {
	c.results = append(c.results, r)
	c.emitLocked(Event{Kind: EventResultAppended, Phase: c.phase, Result: &r})
	c.recordSessionEventLocked(ctx, store.SessionEventData{
		Action:  "stage-result",
		Stage:   r.Stage.String(),
		Outcome: string(r.Outcome),
		Score:   r.Score,
	})
}

func (c *Controller) setPhaseLocked(p Phase) {
	if c.phase == p {
		return
	}
	c.phase = p
	c.emitLocked(Event{Kind: EventPhaseChanged, Phase: p})
}

// emitLocked delivers an event without ever blocking the exchange path.
// A full buffer drops the event; the UI re-reads Snapshot on every event
// anyway.
func (c *Controller) emitLocked(ev Event) {
	if c.terminated {
		return
	}
	select {
	case c.events <- ev:
	default:
	}
}

func (c *Controller) recordSessionEvent(ctx context.Context, data store.SessionEventData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordSessionEventLocked(ctx, data)
}

func (c *Controller) recordSessionEventLocked(ctx context.Context, data store.SessionEventData) {
	if c.cfg.Events == nil {
		return
	}
	data.SessionID = c.id
	data.Mode = c.cfg.Mode.String()
	data.Topic = c.cfg.Topic
	data.Difficulty = string(c.cfg.Difficulty)
	if data.Stage == "" && c.cfg.Mode == ModeInterview {
		data.Stage = c.stage.String()
	}
	if err := c.cfg.Events.AppendSessionEvent(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record session event: %v\n", err)
	}
}

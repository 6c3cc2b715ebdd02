package interview

// Phase is the session's position in the exchange cycle. It is the
// mutual-exclusion mechanism between capture, playback, and the in-flight
// model call: each operation is legal in exactly the phases that name it.
type Phase int

const (
	// PhaseNotStarted precedes the hidden kickoff turn.
	PhaseNotStarted Phase = iota

	// PhaseAwaitingHuman means the model has spoken and the next
	// human utterance may be captured.
	PhaseAwaitingHuman

	// PhaseAwaitingModel means a model call is in flight.
	PhaseAwaitingModel

	// PhaseStageGate means the current stage passed and the session
	// waits for an explicit advance. Capture must not re-arm.
	PhaseStageGate

	// PhaseFailed is terminal: the candidate was rejected.
	PhaseFailed

	// PhaseComplete is terminal: all stages passed, or a tutoring
	// session was ended and evaluated.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseAwaitingHuman:
		return "awaiting-human"
	case PhaseAwaitingModel:
		return "awaiting-model"
	case PhaseStageGate:
		return "stage-gate"
	case PhaseFailed:
		return "failed"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (p Phase) Terminal() bool {
	return p == PhaseFailed || p == PhaseComplete
}

// Gated reports whether capture must never re-arm in this phase.
func (p Phase) Gated() bool {
	return p == PhaseStageGate || p.Terminal()
}

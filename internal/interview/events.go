package interview

import "github.com/abhisek/vercus/internal/protocol"

// EventKind identifies what changed in the session.
type EventKind int

const (
	// EventTranscriptChanged fires when a visible turn is appended.
	EventTranscriptChanged EventKind = iota

	// EventPhaseChanged fires on every phase transition.
	EventPhaseChanged

	// EventResultAppended fires when a stage result is recorded.
	EventResultAppended

	// EventSessionComplete fires once, when the session reaches a
	// terminal phase.
	EventSessionComplete
)

// Event is a session state change delivered to the presentation layer.
type Event struct {
	Kind  EventKind
	Phase Phase

	// Turn is set for EventTranscriptChanged.
	Turn *Turn

	// Result is set for EventResultAppended.
	Result *StageResult

	// Report is set for EventSessionComplete in tutoring mode.
	Report *protocol.TutorReport
}

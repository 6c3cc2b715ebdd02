package session

import (
	"time"

	"github.com/abhisek/vercus/internal/interview"
)

// controllerEventMsg carries one session state change from the controller.
type controllerEventMsg struct {
	Event interview.Event
}

// eventsClosedMsg is sent when the controller's event stream closes.
type eventsClosedMsg struct{}

// utteranceMsg carries a finished human utterance from the turn arbiter.
type utteranceMsg struct {
	Text string
}

// utterancesClosedMsg is sent when the arbiter's utterance stream closes.
type utterancesClosedMsg struct{}

// startDoneMsg is sent when the session kickoff call returns.
type startDoneMsg struct {
	Err error
}

// submitDoneMsg is sent when an utterance submission returns.
type submitDoneMsg struct {
	Err error
}

// advanceDoneMsg is sent when a stage advance call returns.
type advanceDoneMsg struct {
	Err error
}

// endDoneMsg is sent when the tutoring evaluation call returns.
type endDoneMsg struct {
	Err error
}

// spinnerTickMsg animates the thinking indicator.
type spinnerTickMsg time.Time

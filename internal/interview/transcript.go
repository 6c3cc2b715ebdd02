package interview

// Speaker identifies who produced a turn.
type Speaker int

const (
	SpeakerHuman Speaker = iota
	SpeakerModel
)

func (s Speaker) String() string {
	if s == SpeakerHuman {
		return "you"
	}
	return "vercus"
}

// Turn is one utterance in the conversation.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Transcript is the visible dialogue of the current stage. Hidden kickoff
// prompts never appear in it.
type Transcript []Turn

// Append returns the transcript with the turn added.
func (t Transcript) Append(speaker Speaker, text string) Transcript {
	return append(t, Turn{Speaker: speaker, Text: text})
}

// HumanTurns counts the human utterances in the transcript.
func (t Transcript) HumanTurns() int {
	n := 0
	for _, turn := range t {
		if turn.Speaker == SpeakerHuman {
			n++
		}
	}
	return n
}

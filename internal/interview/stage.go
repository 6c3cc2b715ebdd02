// Package interview implements the staged session engine: the linear
// stage machine, the result log, directive construction, and the session
// controller that orchestrates each spoken exchange.
package interview

import "github.com/abhisek/vercus/internal/persona"

// Stage is one segment of a staged interview. Progression is linear;
// there is no skipping and no going back.
type Stage int

const (
	StageIntro Stage = iota
	StageTechnical
	StageNegotiation
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StageTechnical:
		return "technical"
	case StageNegotiation:
		return "negotiation"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Next returns the following stage. ok is false from the final stage.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageIntro:
		return StageTechnical, true
	case StageTechnical:
		return StageNegotiation, true
	default:
		return StageDone, false
	}
}

// Rules returns the stage's rule text for the directive.
func (s Stage) Rules() string {
	switch s {
	case StageIntro:
		return persona.IntroStageRules
	case StageTechnical:
		return persona.TechnicalStageRules
	case StageNegotiation:
		return persona.NegotiationStageRules
	default:
		return ""
	}
}

// Difficulty sets how demanding the interviewer is. Immutable once a
// session starts.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyExpert Difficulty = "Expert"
	DifficultyCEO    Difficulty = "CEO"
)

// Difficulties lists the selectable levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert, DifficultyCEO}
}

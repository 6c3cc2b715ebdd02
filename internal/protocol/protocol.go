// Package protocol parses the control-token grammar embedded in raw model
// output. The interviewer model signals stage outcomes inline: a
// [STAGE_COMPLETE] or [FAIL] token marks the terminal action, and a
// [STAGE_SUMMARY] token delimits a trailing JSON evaluation block. The
// parser separates spoken text from control signals so the rest of the
// session never inspects raw model output.
package protocol

// Control tokens the model is instructed to emit.
const (
	TokenStageComplete = "[STAGE_COMPLETE]"
	TokenFail          = "[FAIL]"
	TokenStageSummary  = "[STAGE_SUMMARY]"
)

// Fallback scores applied when a terminal action arrives without a usable
// numeric score. Downstream aggregation requires every terminal stage to
// carry one.
const (
	DefaultFailScore = 30
	DefaultPassScore = 85
)

// Action is the stage outcome signalled by a model turn.
type Action int

const (
	ActionNone Action = iota
	ActionPass
	ActionFail
)

func (a Action) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionFail:
		return "fail"
	default:
		return "none"
	}
}

// Terminal reports whether the action ends the current stage.
func (a Action) Terminal() bool {
	return a == ActionPass || a == ActionFail
}

// RemedialTutor is a generated suggestion for follow-up tutoring, present
// on failed or low-scoring stages.
type RemedialTutor struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	Expertise   []string `json:"expertise"`
}

// Summary is the structured evaluation block trailing a model turn.
type Summary struct {
	Score         int
	Title         string
	Feedback      string
	Tips          []string
	RemedialTutor *RemedialTutor
}

// Result is the outcome of parsing one raw model turn.
type Result struct {
	// Spoken is the text to show and synthesize, with all control
	// tokens and the summary block stripped.
	Spoken string

	// Action is the stage outcome, if any.
	Action Action

	// Summary is the parsed evaluation block, or nil when absent or
	// malformed. A malformed block degrades to nil without failing
	// the parse.
	Summary *Summary
}

// Parse splits raw model output into spoken text, a stage action, and an
// optional summary block. It never returns an error: malformed summaries
// degrade to a nil Summary, and unknown text passes through as spoken.
//
// When the action is terminal and the summary omits a score, the policy
// default is substituted so the stage always carries a numeric score.
func Parse(raw string) Result {
	segs := lex(raw)

	var res Result
	var spoken []string
	for _, seg := range segs {
		switch s := seg.(type) {
		case plainSeg:
			if s.text != "" {
				spoken = append(spoken, s.text)
			}
		case passSeg:
			if res.Action == ActionNone {
				res.Action = ActionPass
			}
		case failSeg:
			// Pass observed first takes precedence.
			if res.Action == ActionNone {
				res.Action = ActionFail
			}
		case summarySeg:
			if res.Summary == nil {
				res.Summary = parseSummary(s.payload)
			}
		}
	}

	res.Spoken = joinSpoken(spoken)

	if res.Action.Terminal() && res.Summary != nil && res.Summary.Score == 0 {
		res.Summary.Score = FallbackScore(res.Action)
	}
	return res
}

// FallbackScore returns the policy score for a terminal action that
// arrived without one.
func FallbackScore(a Action) int {
	if a == ActionFail {
		return DefaultFailScore
	}
	return DefaultPassScore
}

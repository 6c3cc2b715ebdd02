package interview

import (
	"math"

	"github.com/abhisek/vercus/internal/protocol"
)

// Outcome is the recorded result of one stage.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// StageResult records the evaluation of one completed stage.
type StageResult struct {
	Stage         Stage
	Outcome       Outcome
	Score         int
	Title         string
	Feedback      string
	Tips          []string
	RemedialTutor *protocol.RemedialTutor
}

// ResultLog accumulates stage results across the whole session. It
// survives stage transitions even though the transcript does not.
type ResultLog []StageResult

// OverallScore returns the arithmetic mean of all stage scores, rounded
// to the nearest integer. ok is false when no results exist, which is
// distinct from a score of zero.
func (l ResultLog) OverallScore() (int, bool) {
	if len(l) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range l {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(l)))), true
}

// Verdict is the session-level judgement derived from the result log.
type Verdict string

const (
	VerdictNone             Verdict = ""
	VerdictPassed           Verdict = "passed"
	VerdictNeedsImprovement Verdict = "needs-improvement"
)

// OverallVerdict returns passed when the mean score exceeds 70,
// needs-improvement otherwise, and VerdictNone for an empty log.
func (l ResultLog) OverallVerdict() Verdict {
	score, ok := l.OverallScore()
	if !ok {
		return VerdictNone
	}
	if score > 70 {
		return VerdictPassed
	}
	return VerdictNeedsImprovement
}

// newStageResult builds the result for a terminal action, filling
// defaults when the summary block was absent or incomplete. A low or
// failed result keeps the remedial tutor suggestion; a comfortable pass
// drops it.
func newStageResult(stage Stage, action protocol.Action, summary *protocol.Summary) StageResult {
	r := StageResult{
		Stage:    stage,
		Outcome:  OutcomePassed,
		Score:    protocol.FallbackScore(action),
		Title:    "Participant",
		Feedback: "No feedback provided.",
	}
	if action == protocol.ActionFail {
		r.Outcome = OutcomeFailed
	}
	if summary != nil {
		if summary.Score != 0 {
			r.Score = summary.Score
		}
		if summary.Title != "" {
			r.Title = summary.Title
		}
		if summary.Feedback != "" {
			r.Feedback = summary.Feedback
		}
		r.Tips = summary.Tips
		r.RemedialTutor = summary.RemedialTutor
	}
	if r.Outcome == OutcomePassed && r.Score >= 50 {
		r.RemedialTutor = nil
	}
	return r
}

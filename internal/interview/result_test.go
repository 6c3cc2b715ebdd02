package interview

import (
	"testing"

	"github.com/abhisek/vercus/internal/protocol"
)

func TestOverallScoreEmptyLogIsDistinct(t *testing.T) {
	var log ResultLog
	score, ok := log.OverallScore()
	if ok {
		t.Errorf("empty log reported ok with score %d", score)
	}
	if log.OverallVerdict() != VerdictNone {
		t.Errorf("OverallVerdict() = %q, want none", log.OverallVerdict())
	}
}

func TestOverallScoreRoundsToNearest(t *testing.T) {
	log := ResultLog{
		{Score: 70},
		{Score: 75},
		{Score: 80},
	}
	// Mean is 75.
	score, ok := log.OverallScore()
	if !ok || score != 75 {
		t.Errorf("OverallScore() = %d, %v, want 75, true", score, ok)
	}

	log = ResultLog{{Score: 70}, {Score: 71}}
	// Mean is 70.5; rounds up.
	score, _ = log.OverallScore()
	if score != 71 {
		t.Errorf("OverallScore() = %d, want 71", score)
	}
}

func TestOverallVerdictThreshold(t *testing.T) {
	exactly70 := ResultLog{{Score: 70}}
	if v := exactly70.OverallVerdict(); v != VerdictNeedsImprovement {
		t.Errorf("verdict at 70 = %q, want needs-improvement", v)
	}
	above := ResultLog{{Score: 71}}
	if v := above.OverallVerdict(); v != VerdictPassed {
		t.Errorf("verdict at 71 = %q, want passed", v)
	}
}

func TestNewStageResultDefaults(t *testing.T) {
	r := newStageResult(StageIntro, protocol.ActionPass, nil)
	if r.Score != protocol.DefaultPassScore {
		t.Errorf("Score = %d, want pass fallback %d", r.Score, protocol.DefaultPassScore)
	}
	if r.Outcome != OutcomePassed {
		t.Errorf("Outcome = %q, want passed", r.Outcome)
	}
	if r.Title != "Participant" || r.Feedback != "No feedback provided." {
		t.Errorf("missing defaults: %+v", r)
	}

	r = newStageResult(StageTechnical, protocol.ActionFail, nil)
	if r.Score != protocol.DefaultFailScore || r.Outcome != OutcomeFailed {
		t.Errorf("fail result = %+v", r)
	}
}

func TestNewStageResultRemedialPolicy(t *testing.T) {
	tutor := &protocol.RemedialTutor{Name: "Professor Syntax"}

	// Comfortable pass drops the suggestion.
	r := newStageResult(StageIntro, protocol.ActionPass, &protocol.Summary{Score: 80, RemedialTutor: tutor})
	if r.RemedialTutor != nil {
		t.Error("remedial tutor kept on a comfortable pass")
	}

	// Failure keeps it.
	r = newStageResult(StageIntro, protocol.ActionFail, &protocol.Summary{Score: 30, RemedialTutor: tutor})
	if r.RemedialTutor == nil {
		t.Error("remedial tutor dropped on failure")
	}

	// Low-score pass keeps it.
	r = newStageResult(StageIntro, protocol.ActionPass, &protocol.Summary{Score: 45, RemedialTutor: tutor})
	if r.RemedialTutor == nil {
		t.Error("remedial tutor dropped on low-score pass")
	}
}

func TestStageProgression(t *testing.T) {
	s := StageIntro
	order := []Stage{StageTechnical, StageNegotiation}
	for _, want := range order {
		next, ok := s.Next()
		if !ok || next != want {
			t.Fatalf("%s.Next() = %s, %v, want %s", s, next, ok, want)
		}
		s = next
	}
	if _, ok := s.Next(); ok {
		t.Errorf("%s.Next() ok = true, want false at final stage", s)
	}
}

func TestStageRulesDistinct(t *testing.T) {
	seen := map[string]Stage{}
	for _, s := range []Stage{StageIntro, StageTechnical, StageNegotiation} {
		rules := s.Rules()
		if rules == "" {
			t.Errorf("%s has empty rules", s)
		}
		if prev, dup := seen[rules]; dup {
			t.Errorf("%s and %s share rule text", s, prev)
		}
		seen[rules] = s
	}
}

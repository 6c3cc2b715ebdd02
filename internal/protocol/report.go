package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TutorReport is the end-of-session evaluation of a tutoring session.
type TutorReport struct {
	Status             string   `json:"status"`
	Score              int      `json:"score"`
	Title              string   `json:"title"`
	Feedback           string   `json:"feedback"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	RecommendedCourses []string `json:"recommendedCourses"`
}

// Passed reports whether the evaluation was a pass.
func (r *TutorReport) Passed() bool {
	return strings.EqualFold(r.Status, "pass")
}

// EvaluationPrompt is the hidden end-of-session instruction that elicits
// the tutoring report.
const EvaluationPrompt = `[SYSTEM: END SESSION]
The session is over. Evaluate the student's performance based on the conversation history.

SCORING RULES:
- If the student answered questions correctly and showed understanding: Score 70-100 (Pass).
- If the student struggled but showed effort: Score 40-69 (Fail/Needs Improvement).
- If the student gave irrelevant or very poor answers: Score 0-39 (Fail).
- If the student barely participated or ended immediately: Score 0 (Fail).

Generate a JSON summary in this EXACT format:
{
    "status": "pass" or "fail",
    "score": 0-100,
    "title": "A creative title based on performance (e.g., 'Python Master', 'Novice Learner', 'Promising Student')",
    "feedback": "A brief summary of how the student did.",
    "strengths": ["Strength 1", "Strength 2", "Strength 3"],
    "weaknesses": ["Weakness 1", "Weakness 2", "Weakness 3"],
    "recommendedCourses": ["Course 1", "Course 2", "Course 3"]
}

Do not output anything else. Just the JSON.`

// ParseTutorReport parses the evaluation JSON out of raw model output,
// stripping any code fence.
func ParseTutorReport(raw string) (*TutorReport, error) {
	payload := stripCodeFence(strings.TrimSpace(raw))
	var report TutorReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("parse tutor report: %w", err)
	}
	return &report, nil
}

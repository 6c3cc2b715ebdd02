package interview

import (
	"fmt"
	"strings"

	"github.com/abhisek/vercus/internal/persona"
)

// buildDirective assembles the system instruction for one interview
// exchange: persona text, difficulty, stage rules, and the standing
// interviewer contract. Pure string concatenation; the same inputs always
// yield the same directive.
func buildDirective(p persona.Persona, topic string, stage Stage, difficulty Difficulty) string {
	var b strings.Builder
	b.WriteString(p.Instructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Difficulty Level: %s.\n", difficulty)
	fmt.Fprintf(&b, "Current Stage: %s.\n\n", stage.Rules())
	fmt.Fprintf(&b, `Instructions:
- You are Vercus, the AI Interviewer.
- Your goal is to interview the candidate for a %s role.
- Ask ONE question at a time.
- WAIT for the candidate to respond.
- DO NOT simulate the candidate's response.
- Keep your responses concise and professional.
- If the candidate answers well, ask a harder follow-up.
- If they struggle, provide a hint.

HIDDEN SCORING RULES:
- Maintain a hidden confidence score (0-100) for the candidate based on their answers.
- CRITICAL: Do NOT fail the candidate immediately. You MUST wait for at least 3 user responses before making a pass/fail decision.
- If the score drops below 40 after at least 3 exchanges, FAIL the candidate.
- If the score is above 70 after sufficient evaluation (3-4 good answers), PASS the candidate.

OUTPUT RULES:
- STOP generating after asking your question.
- If PASS: Say a transitional phrase like "That's good. Let's move on..." and append "[STAGE_COMPLETE]" at the very end.
- If FAIL: Politely reject the candidate, explain why briefly, and append "[FAIL]" at the very end.
- ALWAYS append a JSON summary block at the very end (after the token) in this format:
  [STAGE_SUMMARY] {
    "score": 0-100,
    "title": "Fun Title based on performance",
    "feedback": "Brief feedback",
    "tips": ["Tip 1", "Tip 2"],
    "remedialTutor": {
      "name": "Creative Name (e.g., 'Professor Syntax')",
      "role": "Specific Role (e.g., 'Python Error Specialist')",
      "description": "A description of how this agent will help the user fix their specific mistakes from this interview.",
      "expertise": ["Skill 1", "Skill 2"]
    }
  }
  (NOTE: Only include 'remedialTutor' if the candidate FAILED or scored below 50. Otherwise, omit it.)

  SCORING GUIDELINES:
  - FAIL: Score MUST be between 0 and 49.
  - PASS: Score MUST be between 70 and 100.
  - Be harsh but fair. One word answers or "I don't know" should result in very low scores (0-20).

- Otherwise: Continue the interview naturally.`, topic)
	return b.String()
}

// TutorAgent describes the mentor character for a tutoring session.
type TutorAgent struct {
	Name        string
	Role        string
	Description string
	Expertise   []string
}

// buildTutorDirective assembles the system instruction for a tutoring
// exchange.
func buildTutorDirective(agent TutorAgent, difficulty Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s.\n", agent.Name, agent.Role)
	fmt.Fprintf(&b, "Description: %s\n", agent.Description)
	fmt.Fprintf(&b, "Expertise: %s.\n", strings.Join(agent.Expertise, ", "))
	fmt.Fprintf(&b, "Difficulty Level: %s.\n\n", difficulty)
	b.WriteString(`Your goal is to TEACH and MENTOR the student.
- Be encouraging but correct mistakes.
- Explain concepts clearly.
- Use analogies where appropriate.
- Keep responses concise (under 3 sentences) to keep the conversation flowing, unless a detailed explanation is requested.
- Ask checking questions to ensure understanding.

IMPORTANT: Do NOT output any JSON or special tokens during the conversation. Just chat naturally.`)
	return b.String()
}

// Hidden prompts. These drive the model without ever appearing in the
// visible transcript.

func kickoffPrompt(difficulty Difficulty, stage Stage, topic string) string {
	return fmt.Sprintf("Start the %s interview for the %s stage now. Topic: %s. Introduce yourself as Vercus and ask the first question.", difficulty, stage, topic)
}

func nextStagePrompt(stage Stage) string {
	return fmt.Sprintf("I am ready for the next stage: %s. NOTE: I have already introduced myself in the previous stage. SKIP the introduction. START IMMEDIATELY with the first question for the %s stage.", stage, stage)
}

func tutorKickoffPrompt(agent TutorAgent) string {
	first := "your field"
	if len(agent.Expertise) > 0 {
		first = agent.Expertise[0]
	}
	return fmt.Sprintf("Start the session. You are %s, a %s. Introduce yourself briefly and ask what the student would like to learn about %s today.", agent.Name, agent.Role, first)
}

// historyLeadIn is prepended when the per-stage history would otherwise
// begin with a model turn, which some providers reject.
func historyLeadIn(difficulty Difficulty, stage Stage, topic string) string {
	return fmt.Sprintf("Start the %s interview for the %s stage. Topic: %s.", difficulty, stage, topic)
}

// Package report renders the end-of-session report card: per-stage
// results and the overall verdict for interviews, or the single
// evaluation block for tutoring sessions.
package report

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vercus/internal/interview"
	"github.com/abhisek/vercus/internal/protocol"
	"github.com/abhisek/vercus/internal/screen"
	"github.com/abhisek/vercus/internal/ui/layout"
	"github.com/abhisek/vercus/internal/ui/theme"
)

// ReportScreen is a read-only view over a finished session.
type ReportScreen struct {
	snap   interview.Snapshot
	scroll int
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates a ReportScreen from a terminal-phase snapshot.
func New(snap interview.Snapshot) *ReportScreen {
	return &ReportScreen{snap: snap}
}

func (r *ReportScreen) Init() tea.Cmd {
	return nil
}

func (r *ReportScreen) Title() string {
	return "Report"
}

func (r *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (r *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if r.scroll > 0 {
				r.scroll--
			}
		case "down", "j":
			r.scroll++
		}
	}
	return r, nil
}

func (r *ReportScreen) View(width, height int) string {
	cw := width - 8
	if cw > 70 {
		cw = 70
	}
	if cw < 30 {
		cw = 30
	}

	var body string
	if r.snap.Mode == interview.ModeTutoring {
		body = r.renderTutorReport(cw)
	} else {
		body = r.renderInterviewReport(cw)
	}

	// Clamp scroll to the content, then window it to the visible height.
	lines := strings.Split(body, "\n")
	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if r.scroll > maxScroll {
		r.scroll = maxScroll
	}
	if r.scroll > 0 {
		lines = lines[r.scroll:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	body = strings.Join(lines, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

func (r *ReportScreen) renderInterviewReport(cw int) string {
	var sections []string

	sections = append(sections, r.renderOverall(cw))

	for _, res := range r.snap.Results {
		sections = append(sections, renderStageCard(res, cw))
	}

	if tutor := firstRemedialTutor(r.snap.Results); tutor != nil {
		sections = append(sections, renderRemedialCard(tutor, cw))
	}

	return strings.Join(sections, "\n\n")
}

func (r *ReportScreen) renderOverall(cw int) string {
	score, ok := r.snap.Results.OverallScore()

	var headline, detail string
	var clr color.Color
	switch {
	case !ok:
		headline = "No Stages Completed"
		detail = "The session ended before any stage was evaluated."
		clr = theme.TextDim
	case r.snap.Results.OverallVerdict() == interview.VerdictPassed:
		headline = fmt.Sprintf("Overall Score: %d", score)
		detail = "Verdict: PASSED"
		clr = theme.Success
	default:
		headline = fmt.Sprintf("Overall Score: %d", score)
		detail = "Verdict: NEEDS IMPROVEMENT"
		clr = theme.Error
	}

	content := lipgloss.NewStyle().Foreground(clr).Bold(true).Render(headline) +
		"\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(detail)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(clr).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(content)
}

func renderStageCard(res interview.StageResult, cw int) string {
	outcomeStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if res.Outcome == interview.OutcomeFailed {
		outcomeStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n",
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(strings.ToUpper(res.Stage.String())),
		outcomeStyle.Render(strings.ToUpper(string(res.Outcome))),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d/100", res.Score)),
	)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Italic(true).Render(`"`+res.Title+`"`) + "\n\n")
	b.WriteString(wrap(res.Feedback, cw-6))
	if len(res.Tips) > 0 {
		b.WriteString("\n")
		for _, tip := range res.Tips {
			b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("• ") + wrap(tip, cw-8))
		}
	}

	return card(b.String(), cw)
}

func renderRemedialCard(tutor *protocol.RemedialTutor, cw int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("RECOMMENDED TUTOR") + "\n\n")
	fmt.Fprintf(&b, "%s, %s\n\n",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tutor.Name),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(tutor.Role),
	)
	b.WriteString(wrap(tutor.Description, cw-6))
	if len(tutor.Expertise) > 0 {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Expertise: "+strings.Join(tutor.Expertise, ", ")))
	}
	return card(b.String(), cw)
}

func (r *ReportScreen) renderTutorReport(cw int) string {
	rep := r.snap.Report
	if rep == nil {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("No evaluation available.")
	}

	color := theme.Error
	verdict := "NEEDS IMPROVEMENT"
	if rep.Passed() {
		color = theme.Success
		verdict = "PASSED"
	}

	var sections []string

	head := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("Score: %d", rep.Score)) +
		"\n" + lipgloss.NewStyle().Foreground(theme.Text).Render("Verdict: "+verdict)
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(head))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Italic(true).Render(`"`+rep.Title+`"`) + "\n\n")
	b.WriteString(wrap(rep.Feedback, cw-6))
	sections = append(sections, card(b.String(), cw))

	if len(rep.Strengths) > 0 {
		sections = append(sections, listCard("STRENGTHS", rep.Strengths, theme.Success, cw))
	}
	if len(rep.Weaknesses) > 0 {
		sections = append(sections, listCard("WEAKNESSES", rep.Weaknesses, theme.Error, cw))
	}
	if len(rep.RecommendedCourses) > 0 {
		sections = append(sections, listCard("RECOMMENDED COURSES", rep.RecommendedCourses, theme.Secondary, cw))
	}

	return strings.Join(sections, "\n\n")
}

func listCard(title string, items []string, clr color.Color, cw int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(clr).Bold(true).Render(title))
	for _, item := range items {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("• ") + wrap(item, cw-8))
	}
	return card(b.String(), cw)
}

func card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 2).
		Render(content)
}

func wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(text)
}

// firstRemedialTutor returns the tutor suggestion from the earliest
// result carrying one.
func firstRemedialTutor(results interview.ResultLog) *protocol.RemedialTutor {
	for _, res := range results {
		if res.RemedialTutor != nil {
			return res.RemedialTutor
		}
	}
	return nil
}

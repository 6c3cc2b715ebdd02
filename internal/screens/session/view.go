package session

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vercus/internal/interview"
	"github.com/abhisek/vercus/internal/ui/components"
	"github.com/abhisek/vercus/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// maxVisibleTurns bounds the transcript tail shown on screen.
const maxVisibleTurns = 12

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}

	cw := width - 4
	if cw > 90 {
		cw = 90
	}
	if cw < 30 {
		cw = 30
	}

	var sections []string

	if s.snap.Mode == interview.ModeInterview {
		sections = append(sections, s.renderStageBar(cw))
	}

	sections = append(sections, s.renderTranscript(cw, height))

	switch {
	case s.completed:
		sections = append(sections, renderBanner(cw, theme.Success,
			"Session complete. Press Enter to view your report."))
	case s.snap.Phase == interview.PhaseStageGate:
		next, _ := s.snap.Stage.Next()
		sections = append(sections, renderBanner(cw, theme.Accent,
			fmt.Sprintf("Stage passed. Press Enter to begin the %s stage.", next)))
	case s.snap.Phase == interview.PhaseAwaitingModel:
		frame := spinnerFrames[s.spinner%len(spinnerFrames)]
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(frame+" thinking..."))
	default:
		sections = append(sections, s.renderInput(cw))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderStageBar shows progress through the three interview stages.
func (s *SessionScreen) renderStageBar(cw int) string {
	label := fmt.Sprintf("Stage: %s", s.snap.Stage)
	percent := float64(len(s.snap.Results)) / 3.0
	bar := components.NewProgressBar(label, percent, false, cw)
	return bar.View()
}

func (s *SessionScreen) renderTranscript(cw, height int) string {
	turns := s.snap.Transcript
	if len(turns) > maxVisibleTurns {
		turns = turns[len(turns)-maxVisibleTurns:]
	}

	modelLabel := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	humanLabel := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4)

	var lines []string
	for _, turn := range turns {
		var label string
		if turn.Speaker == interview.SpeakerModel {
			label = modelLabel.Render("VERCUS")
		} else {
			label = humanLabel.Render("YOU")
		}
		lines = append(lines, label)
		lines = append(lines, body.Render(turn.Text))
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("Connecting you with your interviewer..."))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (s *SessionScreen) renderInput(cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(cw).
		Padding(0, 1).
		Render(s.input.View())
}

func renderBanner(cw int, clr color.Color, text string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(clr).
		Foreground(clr).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

func renderError(width, height int, msg string) string {
	content := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Render("Something went wrong") + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(msg) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press Esc to go back")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vercus/internal/ui/components"
	"github.com/abhisek/vercus/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const boardTitleFull = ` ██╗   ██╗███████╗██████╗  ██████╗██╗   ██╗███████╗
 ██║   ██║██╔════╝██╔══██╗██╔════╝██║   ██║██╔════╝
 ██║   ██║█████╗  ██████╔╝██║     ██║   ██║███████╗
 ╚██╗ ██╔╝██╔══╝  ██╔══██╗██║     ██║   ██║╚════██║
  ╚████╔╝ ███████╗██║  ██║╚██████╗╚██████╔╝███████║
   ╚═══╝  ╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝`

const boardTitleCompact = "V · E · R · C · U · S"

const interviewerDesk = `   ╭─────────╮
   │  ◉   ◉  │
   │    ─    │
   ╰────┬────╯
  ┌─────┴─────┐
  │ ▒▒▒▒▒▒▒▒▒ │
 ═╧═══════════╧═`

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(boardTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(boardTitleFull))
}

// renderInterviewerBox renders the interviewer art centered at content width.
func renderInterviewerBox(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Secondary).Render(interviewerDesk))
}

// renderStatsBar renders session stats in a bordered box matching content width.
func renderStatsBar(run, won, cw int, compact bool) string {
	runStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	wonStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s",
			runStyle.Render(fmt.Sprintf("▣%d", run)),
			passText(run, won, true, wonStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s",
			runStyle.Render(fmt.Sprintf("▣ %d SESSIONS", run)),
			passText(run, won, false, wonStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func passText(run, won int, compact bool, active, dim lipgloss.Style) string {
	if run == 0 {
		if compact {
			return dim.Render("★—")
		}
		return dim.Render("★ NO RESULTS YET")
	}
	pct := won * 100 / run
	if compact {
		return active.Render(fmt.Sprintf("★%d%%", pct))
	}
	return active.Render(fmt.Sprintf("★ %d%% PASSED", pct))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderBoardMenu renders each menu item as a fixed-width button.
func renderBoardMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
		} else {
			buttons = append(buttons, components.PanelButton(label, i == selected, buttonWidth))
		}
	}
	block := strings.Join(buttons, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderBoardMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderBoardMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		if disabled[i] {
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		} else if i == selected {
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderLLMBanner renders a warning banner when no LLM credential is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to start a session (see vercus --help)")
}

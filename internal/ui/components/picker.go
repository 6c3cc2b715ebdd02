package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vercus/internal/ui/theme"
)

// Picker is a scrollable list selector. Long option lists are windowed
// so the component never grows past MaxVisible lines.
type Picker struct {
	Prompt     string
	Options    []string
	Selected   int
	MaxVisible int
	offset     int
}

// NewPicker creates a picker over the given options.
func NewPicker(prompt string, options []string, maxVisible int) Picker {
	if maxVisible <= 0 {
		maxVisible = 8
	}
	return Picker{
		Prompt:     prompt,
		Options:    options,
		MaxVisible: maxVisible,
	}
}

// Init returns nil.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Selection is read by the caller
// on enter; the picker itself never submits.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "home":
		p.Selected = 0
	case "end":
		p.Selected = len(p.Options) - 1
	}

	// Keep the selection inside the visible window.
	if p.Selected < p.offset {
		p.offset = p.Selected
	}
	if p.Selected >= p.offset+p.MaxVisible {
		p.offset = p.Selected - p.MaxVisible + 1
	}

	return p, nil
}

// Value returns the currently selected option, or "" when empty.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// View renders the visible window of options.
func (p Picker) View() string {
	var s string
	if p.Prompt != "" {
		s += lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Prompt) + "\n\n"
	}

	end := p.offset + p.MaxVisible
	if end > len(p.Options) {
		end = len(p.Options)
	}

	if p.offset > 0 {
		s += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ▲ more") + "\n"
	}

	for i := p.offset; i < end; i++ {
		opt := p.Options[i]
		if i == p.Selected {
			s += lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render("  ▸ "+opt) + "\n"
		} else {
			s += lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("    "+opt) + "\n"
		}
	}

	if end < len(p.Options) {
		s += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ▼ more") + "\n"
	}

	return s
}

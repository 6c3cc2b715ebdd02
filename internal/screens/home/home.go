package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/router"
	"github.com/abhisek/vercus/internal/screen"
	"github.com/abhisek/vercus/internal/screens/setup"
	"github.com/abhisek/vercus/internal/store"
	"github.com/abhisek/vercus/internal/ui/components"
	"github.com/abhisek/vercus/internal/voice"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu          components.Menu
	menuLabels    []string
	disabled      map[int]bool
	sessionsRun   int
	sessionsWon   int
	llmConfigured bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(provider llm.Provider, registry *persona.Registry, eventRepo store.EventRepo, playback voice.Playback) *HomeScreen {
	// Load recent session outcomes for the stats bar.
	var sessionsRun, sessionsWon int
	if eventRepo != nil {
		events, _ := eventRepo.RecentSessionEvents(context.Background(), store.QueryOpts{Limit: 200})
		for _, ev := range events {
			if ev.Action != "end" {
				continue
			}
			sessionsRun++
			if ev.Outcome == "passed" {
				sessionsWon++
			}
		}
	}

	llmConfigured := provider != nil

	menuLabels := []string{"START INTERVIEW", "TUTORING SESSION", "EXIT"}
	disabled := map[int]bool{
		0: !llmConfigured,
		1: !llmConfigured,
	}

	items := []components.MenuItem{
		{Label: menuLabels[0], Disabled: !llmConfigured, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: setup.New(setup.ModeInterview, provider, registry, eventRepo, playback),
				}
			}
		}},
		{Label: menuLabels[1], Disabled: !llmConfigured, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: setup.New(setup.ModeTutoring, provider, registry, eventRepo, playback),
				}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:          components.NewMenu(items),
		menuLabels:    menuLabels,
		disabled:      disabled,
		sessionsRun:   sessionsRun,
		sessionsWon:   sessionsWon,
		llmConfigured: llmConfigured,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	// All sections share a uniform content width so they line up.
	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderInterviewerBox(cw))
	}

	sections = append(sections, renderStatsBar(h.sessionsRun, h.sessionsWon, cw, compact))

	if !h.llmConfigured {
		sections = append(sections, renderLLMBanner(cw))
	}

	if compact {
		sections = append(sections, renderBoardMenuCompact(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderBoardMenu(
			h.menuLabels, h.menu.Selected, cw, h.disabled))
	}

	content := strings.Join(sections, "\n\n")

	return components.BoardFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

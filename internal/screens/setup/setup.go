package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vercus/internal/interview"
	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/router"
	"github.com/abhisek/vercus/internal/screen"
	sessionscreen "github.com/abhisek/vercus/internal/screens/session"
	"github.com/abhisek/vercus/internal/store"
	"github.com/abhisek/vercus/internal/ui/components"
	"github.com/abhisek/vercus/internal/ui/theme"
	"github.com/abhisek/vercus/internal/voice"
)

// Mode aliases the session flavor so callers configure the setup screen
// without importing the interview package.
type Mode = interview.Mode

const (
	ModeInterview = interview.ModeInterview
	ModeTutoring  = interview.ModeTutoring
)

type step int

const (
	stepTopic step = iota
	stepDifficulty
)

// SetupScreen walks the user through topic and difficulty selection,
// then replaces itself with a running session.
type SetupScreen struct {
	mode      Mode
	provider  llm.Provider
	registry  *persona.Registry
	eventRepo store.EventRepo
	playback  voice.Playback

	step       step
	topics     components.Picker
	difficulty components.Picker

	ids    []string
	titles []string
}

var _ screen.Screen = (*SetupScreen)(nil)

// New creates a SetupScreen for the given mode.
func New(mode Mode, provider llm.Provider, registry *persona.Registry, eventRepo store.EventRepo, playback voice.Playback) *SetupScreen {
	ids := registry.IDs()
	titles := make([]string, len(ids))
	for i, id := range ids {
		titles[i] = registry.Resolve(id).Title
	}

	diffs := interview.Difficulties()
	diffLabels := make([]string, len(diffs))
	for i, d := range diffs {
		diffLabels[i] = string(d)
	}

	topicPrompt := "Choose an interview topic"
	if mode == ModeTutoring {
		topicPrompt = "Choose a subject to study"
	}

	return &SetupScreen{
		mode:       mode,
		provider:   provider,
		registry:   registry,
		eventRepo:  eventRepo,
		playback:   playback,
		topics:     components.NewPicker(topicPrompt, titles, 10),
		difficulty: components.NewPicker("Choose a difficulty", diffLabels, 6),
		ids:        ids,
		titles:     titles,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		switch s.step {
		case stepTopic:
			s.step = stepDifficulty
			return s, nil
		case stepDifficulty:
			return s, s.launch()
		}
	}

	var cmd tea.Cmd
	switch s.step {
	case stepTopic:
		s.topics, cmd = s.topics.Update(msg)
	case stepDifficulty:
		s.difficulty, cmd = s.difficulty.Update(msg)
	}
	return s, cmd
}

// launch builds the session controller and swaps in the session screen.
func (s *SetupScreen) launch() tea.Cmd {
	p := s.registry.Resolve(s.ids[s.topics.Selected])
	difficulty := interview.Difficulty(s.difficulty.Value())

	cfg := interview.Config{
		Mode:       s.mode,
		Persona:    p,
		Topic:      p.Title,
		Difficulty: difficulty,
		Events:     s.eventRepo,
	}
	if s.mode == ModeTutoring {
		cfg.Tutor = tutorFor(p)
	}

	ctrl := interview.NewController(s.provider, cfg)
	sess := sessionscreen.New(ctrl, s.playback)

	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: sess}
	}
}

// tutorFor derives a mentor character from an interviewer persona.
func tutorFor(p persona.Persona) *interview.TutorAgent {
	return &interview.TutorAgent{
		Name:        fmt.Sprintf("Professor %s", p.Title),
		Role:        fmt.Sprintf("%s Mentor", p.Title),
		Description: fmt.Sprintf("A patient mentor who teaches %s from the ground up, adapting to the student's pace.", p.Title),
		Expertise:   []string{p.Title},
	}
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.step {
	case stepTopic:
		body = s.topics.View()
	case stepDifficulty:
		chosen := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("Topic: " + s.titles[s.topics.Selected])
		body = chosen + "\n\n" + s.difficulty.View()
	}

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render("enter to confirm")

	content := strings.Join([]string{body, hint}, "\n")
	card := components.Card(content, cw)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *SetupScreen) Title() string {
	if s.mode == ModeTutoring {
		return "Tutoring Setup"
	}
	return "Interview Setup"
}

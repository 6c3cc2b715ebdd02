package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/vercus/internal/app"
	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/persona"
	"github.com/abhisek/vercus/internal/store"
	"github.com/abhisek/vercus/internal/voice"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	personaPath, err := persona.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolve persona path: %w", err)
	}
	registry, err := persona.LoadRegistry(personaPath)
	if err != nil {
		return fmt.Errorf("load personas: %w", err)
	}

	eventRepo := st.EventRepo()
	opts := app.Options{
		EventRepo: eventRepo,
		Registry:  registry,
	}

	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Sessions will be unavailable.")
	} else {
		opts.Provider = provider
	}

	playback, err := voice.NewCommandPlayback()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Speech synthesis unavailable:", err)
		opts.Playback = voice.NullPlayback{}
	} else {
		opts.Playback = playback
	}

	return app.Run(opts)
}

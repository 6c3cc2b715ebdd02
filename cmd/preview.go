package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/vercus/internal/llm"
	"github.com/abhisek/vercus/internal/store"
	"github.com/abhisek/vercus/internal/voice"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Exercise subsystems outside a session",
	Long: `Developer tools for checking the speech and model paths without
starting a full session.`,
}

var previewSpeechCmd = &cobra.Command{
	Use:   "speech <text>",
	Short: "Normalize text for synthesis and speak it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		silent, _ := cmd.Flags().GetBool("silent")

		text := args[0]
		for _, a := range args[1:] {
			text += " " + a
		}
		fmt.Println(voice.NormalizeSpeech(text))

		if silent {
			return nil
		}
		playback, err := voice.NewCommandPlayback()
		if err != nil {
			return err
		}
		return playback.Speak(cmd.Context(), text)
	},
}

var previewModelCmd = &cobra.Command{
	Use:   "model <prompt>",
	Short: "Send one prompt through the failover gateway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo())
		if err != nil {
			return fmt.Errorf("build provider: %w", err)
		}

		resp, err := provider.Generate(llm.WithPurpose(ctx, "preview"), llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: args[0]}},
			MaxTokens: 512,
		})
		if err != nil {
			return err
		}

		fmt.Println(resp.Text)
		fmt.Printf("\n[%s: %d in / %d out]\n", resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return nil
	},
}

func init() {
	previewSpeechCmd.Flags().Bool("silent", false, "Only print the normalized text")

	previewCmd.AddCommand(previewSpeechCmd)
	previewCmd.AddCommand(previewModelCmd)
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vercus/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session history and pass rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().RecentSessionEvents(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}

		var run, won int
		fmt.Printf("%-19s  %-10s  %-20s  %-8s  %-7s  %s\n",
			"Ended", "Mode", "Topic", "Level", "Score", "Outcome")
		fmt.Println(strings.Repeat("─", 80))
		for _, ev := range events {
			if ev.Action != "end" {
				continue
			}
			run++
			if ev.Outcome == "passed" {
				won++
			}
			topic := ev.Topic
			if len(topic) > 20 {
				topic = topic[:20]
			}
			fmt.Printf("%-19s  %-10s  %-20s  %-8s  %-7d  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Mode, topic, ev.Difficulty, ev.Score, ev.Outcome)
		}

		if run == 0 {
			fmt.Println("No finished sessions yet.")
			return nil
		}

		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("Sessions: %d   Passed: %d (%d%%)\n", run, won, won*100/run)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 50, "Number of session events to scan")
}

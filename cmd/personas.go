package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vercus/internal/persona"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Manage the interviewer persona catalog",
}

var personasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available personas (builtin plus custom)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := persona.DefaultPath()
		if err != nil {
			return err
		}
		reg, err := persona.LoadRegistry(path)
		if err != nil {
			return err
		}

		custom, err := persona.LoadFile(path)
		if err != nil {
			return err
		}
		customIDs := make(map[string]bool, len(custom))
		for _, p := range custom {
			customIDs[p.ID] = true
		}

		fmt.Printf("%-16s  %-28s  %s\n", "ID", "Title", "Source")
		fmt.Println(strings.Repeat("─", 60))
		for _, id := range reg.IDs() {
			p, _ := reg.Lookup(id)
			source := "builtin"
			if customIDs[id] {
				source = "custom"
			}
			fmt.Printf("%-16s  %-28s  %s\n", p.ID, p.Title, source)
		}
		return nil
	},
}

var personasShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a persona's full instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := persona.DefaultPath()
		if err != nil {
			return err
		}
		reg, err := persona.LoadRegistry(path)
		if err != nil {
			return err
		}

		p, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("persona %q not found", args[0])
		}
		fmt.Printf("ID:    %s\nTitle: %s\n\n%s\n", p.ID, p.Title, p.Instructions)
		return nil
	},
}

var personasAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or replace a custom persona",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		instructions, _ := cmd.Flags().GetString("instructions")
		if title == "" || instructions == "" {
			return fmt.Errorf("--title and --instructions are required")
		}

		path, err := persona.DefaultPath()
		if err != nil {
			return err
		}
		custom, err := persona.LoadFile(path)
		if err != nil {
			return err
		}

		p := persona.Persona{ID: args[0], Title: title, Instructions: instructions}
		replaced := false
		for i := range custom {
			if custom[i].ID == p.ID {
				custom[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			custom = append(custom, p)
		}

		if err := persona.SaveFile(path, custom); err != nil {
			return err
		}
		if replaced {
			fmt.Printf("Replaced persona %q in %s\n", p.ID, path)
		} else {
			fmt.Printf("Added persona %q to %s\n", p.ID, path)
		}
		return nil
	},
}

var personasRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a custom persona (builtins cannot be removed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := persona.DefaultPath()
		if err != nil {
			return err
		}
		custom, err := persona.LoadFile(path)
		if err != nil {
			return err
		}

		kept := custom[:0]
		removed := false
		for _, p := range custom {
			if p.ID == args[0] {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		if !removed {
			return fmt.Errorf("no custom persona %q (builtins cannot be removed)", args[0])
		}

		if err := persona.SaveFile(path, kept); err != nil {
			return err
		}
		fmt.Printf("Removed persona %q\n", args[0])
		return nil
	},
}

func init() {
	personasAddCmd.Flags().String("title", "", "Display title, e.g. \"Kubernetes\"")
	personasAddCmd.Flags().String("instructions", "", "Interviewer character instructions")

	personasCmd.AddCommand(personasListCmd)
	personasCmd.AddCommand(personasShowCmd)
	personasCmd.AddCommand(personasAddCmd)
	personasCmd.AddCommand(personasRemoveCmd)
}

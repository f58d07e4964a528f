package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResearchCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "research <name>",
		Short: "Research a board game",
		Long:  "Discovers sources for the named game, downloads them and builds a searchable knowledge base.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Research.HandleResearch(cmd.Context(), args[0], force)
				if err != nil {
					return fmt.Errorf("researching %q: %w", args[0], err)
				}

				fmt.Printf("Researched %s (game %d): %s\n", result.Name, result.GameID, result.Status)
				fmt.Printf("  Sources: %d (%d downloaded, %d linked)\n", result.SourceCount, result.Downloaded, result.Linked)
				fmt.Printf("  Indexed chunks: %d\n", result.Chunks)
				if result.Description != "" {
					fmt.Printf("\n%s\n", result.Description)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-research a game that is already ready")

	return cmd
}

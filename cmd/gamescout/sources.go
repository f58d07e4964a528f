package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources <game-id>",
		Short: "List the sources collected for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				sources, err := d.Games.HandleSources(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("listing sources for game %d: %w", id, err)
				}

				if len(sources) == 0 {
					fmt.Println("No sources found.")
					return nil
				}

				for i, s := range sources {
					title := s.Title
					if title == "" {
						title = s.OriginURL
					}
					fmt.Printf("%d. [%s] %s\n", i+1, s.Type, title)
					fmt.Printf("   URL: %s\n", s.OriginURL)
					if s.LocalPath != nil {
						fmt.Printf("   File: %s\n", *s.LocalPath)
					}
				}
				return nil
			})
		},
	}

	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "games [id]",
		Short: "List tracked games or show one game",
		Long:  "Without arguments lists all tracked games; with a game ID shows its details.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid game id %q", args[0])
				}
				return withDeps(cmd.Context(), func(d *Deps) error {
					return showGame(cmd, d, id)
				})
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				return listGames(cmd, d, status)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (created, researching, ready, failed)")

	return cmd
}

func listGames(cmd *cobra.Command, d *Deps, status string) error {
	games, err := d.Games.HandleList(cmd.Context(), status)
	if err != nil {
		return fmt.Errorf("listing games: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games found.")
		return nil
	}

	for _, g := range games {
		fmt.Printf("%d. %s [%s]\n", g.ID, g.Name, g.Status)
		if g.LastResearchedAt != nil {
			fmt.Printf("   Last researched: %s\n", g.LastResearchedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func showGame(cmd *cobra.Command, d *Deps, id int64) error {
	game, err := d.Games.HandleGet(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("getting game %d: %w", id, err)
	}

	fmt.Printf("%s [%s]\n", game.Name, game.Status)
	fmt.Printf("  ID:      %d\n", game.ID)
	fmt.Printf("  Created: %s\n", game.CreatedAt.Format("2006-01-02 15:04"))
	if game.LastResearchedAt != nil {
		fmt.Printf("  Last researched: %s\n", game.LastResearchedAt.Format("2006-01-02 15:04"))
	}
	if md := game.Metadata; md != nil {
		if md.PlayerCount != nil {
			fmt.Printf("  Players:    %s\n", *md.PlayerCount)
		}
		if md.DifficultyScore != nil {
			fmt.Printf("  Difficulty: %.1f\n", *md.DifficultyScore)
		}
		if md.ReferenceURL != nil {
			fmt.Printf("  Reference:  %s\n", *md.ReferenceURL)
		}
		if md.TutorialVideoURL != nil {
			fmt.Printf("  Tutorial:   %s\n", *md.TutorialVideoURL)
		}
	}
	if game.Description != nil && *game.Description != "" {
		fmt.Printf("\n%s\n", *game.Description)
	}
	return nil
}

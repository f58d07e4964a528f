package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about a researched game",
		Long:  "Resolves which game the question is about and answers it from the game's knowledge base.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Answer.HandleAsk(cmd.Context(), question)
				if err != nil {
					return fmt.Errorf("answering question: %w", err)
				}
				fmt.Println(result.Text)
				return nil
			})
		},
	}

	return cmd
}

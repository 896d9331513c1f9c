package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [deck]",
	Short: "Check that a deck can be presented",
	Long:  `Decodes the deck, checks its sub-topics and reports slide and reveal step counts.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		d, err := cli.LoadDeck(cmd.Context(), deckPath(args), stack.Logger)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := cli.Validate(os.Stdout, d); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("Deck is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

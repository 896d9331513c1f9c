package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [deck]",
	Short: "Export the deck outline visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the sub-topics and their slides.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		d, err := cli.LoadDeck(cmd.Context(), deckPath(args), stack.Logger)
		if err != nil {
			return err
		}
		return cli.Outline(os.Stdout, d)
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

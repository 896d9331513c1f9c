package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var presentCmd = &cobra.Command{
	Use:   "present [deck]",
	Short: "Present a deck in the terminal",
	Long: `Opens a full-screen presenter. Arrow keys, space and enter reveal and navigate;
't' toggles the speaker notes and 'q' quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		notes, _ := cmd.Flags().GetBool("notes")
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Present(ctx, stack, cli.PresentOptions{Path: deckPath(args), Notes: notes})
	},
}

func init() {
	rootCmd.AddCommand(presentCmd)
	presentCmd.Flags().Bool("notes", false, "Show speaker notes")
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [deck]",
	Short: "Present a deck line by line",
	Long: `Starts the line runner: each input line is a command (next, previous, goto N,
next_slide, jump ID, ...); an empty line advances. Suited to pipes with --headless.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		headless, _ := cmd.Flags().GetBool("headless")
		notes, _ := cmd.Flags().GetBool("notes")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunSession(ctx, stack, cli.RunOptions{
			Path:     deckPath(args),
			Headless: headless,
			Notes:    notes,
			Watch:    watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no prompt)")
	runCmd.Flags().Bool("notes", false, "Print speaker notes under each slide")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the deck when its source changes")
}

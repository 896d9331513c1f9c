package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves presenter sessions over HTTP: a JSON API, server-sent events, an HTML
viewer and Prometheus metrics. --deck preloads the "default" session and reloads
it whenever the deck changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		addr := stack.Config.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		deck, _ := cmd.Flags().GetString("deck")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, stack, cli.ServeOptions{Addr: addr, DeckPath: deck})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().String("deck", "", "Deck to preload as the default session")
}

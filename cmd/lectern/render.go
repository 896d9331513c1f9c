package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/aretw0/lectern/internal/presentation/tui"
)

var renderCmd = &cobra.Command{
	Use:   "render [deck]",
	Short: "Render one slide to stdout",
	Long:  `Renders a single slide at a given reveal step as Markdown, HTML, ANSI text or JSON.`,
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

		format, _ := cmd.Flags().GetString("format")
		subTopic, _ := cmd.Flags().GetString("sub-topic")
		slide, _ := cmd.Flags().GetInt("slide")
		step, _ := cmd.Flags().GetInt("step")

		return cli.Render(cmd.Context(), os.Stdout, stack, d, cli.RenderOptions{
			Format:   format,
			SubTopic: subTopic,
			Slide:    slide,
			Step:     step,
			Width:    tui.TerminalWidth(os.Stdout),
		})
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: md, html, ansi or json")
	renderCmd.Flags().String("sub-topic", "", "Sub-topic ID (default: the first one)")
	renderCmd.Flags().Int("slide", 0, "Slide index within the sub-topic, from 0")
	renderCmd.Flags().Int("step", -1, "Reveal step (-1 reveals everything)")
}

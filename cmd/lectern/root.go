package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/aretw0/lectern/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Lectern presents lesson decks with step-by-step reveal",
	Long: `Lectern loads a lesson deck (a JSON/YAML document or a directory of Markdown slides)
and presents it one slide at a time, revealing points and content blocks step by step.
The same presenter drives the terminal UI, a line runner, an HTTP API and an MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default lectern.yaml if present)")
	rootCmd.PersistentFlags().String("env-file", "", "Env file (default .env if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("images-root", "", "Root of derived image paths")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every presenter event to stderr")
}

// loadStack reads the configuration, applies the persistent flags and builds the stack.
func loadStack(cmd *cobra.Command) (*cli.Stack, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(file, envFile)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}
	if cmd.Flags().Changed("images-root") {
		cfg.ImagesRoot, _ = cmd.Flags().GetString("images-root")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewStack(cfg, debug), nil
}

// deckPath returns the first positional argument, or the current directory.
func deckPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

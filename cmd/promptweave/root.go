package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/promptweave/promptweave/internal/cli"
	"github.com/promptweave/promptweave/internal/config"
	"github.com/promptweave/promptweave/version"
)

var (
	cfgFile      string
	outputFormat string

	cfgManager *config.Manager
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "promptweave",
	Short: "Prepare LLM inputs and validate structured outputs",
	Long: `Promptweave compiles declarative schema definitions into validation
models and formats prompt templates into provider-ready messages.

It covers:
  - Schema compilation with custom types, enums, and nested lists
  - JSON Schema export for strict structured-output modes
  - Template formatting with static and iterable content groups
  - Message conversion to OpenAI and Anthropic wire formats`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.promptweave/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: yaml or json",
	)

	// Load config and set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cli.SetOutputFormat(outputFormat)

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgManager = mgr
		logger = mgr.Get().NewLogger()
		slog.SetDefault(logger)

		// Long-running invocations pick up config edits live.
		mgr.OnChange(func(cfg *config.Config) {
			logger = cfg.NewLogger()
			slog.SetDefault(logger)
		})
		mgr.WatchConfig()
		return nil
	}

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

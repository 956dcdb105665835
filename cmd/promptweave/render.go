package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptweave/promptweave/internal/cli"
	"github.com/promptweave/promptweave/internal/convert"
	"github.com/promptweave/promptweave/internal/prompt"
	"github.com/promptweave/promptweave/internal/task"
)

var (
	renderInputFile string
	renderFormat    string
)

var renderCmd = &cobra.Command{
	Use:   "render <task-dir>",
	Short: "Format a task's template and convert it to a provider wire format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := task.NewLoader(logger).Load(args[0])
		if err != nil {
			return err
		}

		input := t.InputExample
		if renderInputFile != "" {
			data, err := os.ReadFile(renderInputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}
		}
		if input == nil {
			return fmt.Errorf("no input: pass --input or add %s to the task", task.ExampleFileName)
		}

		format := renderFormat
		if format == "" {
			format = cfgManager.Get().Defaults.Format
		}

		result, err := task.Render(prompt.NewEngine(logger), convert.NewRegistry(logger), t, format, input)
		if err != nil {
			return err
		}

		return cli.Output(map[string]any{
			"id":       result.ID,
			"task":     result.Task,
			"format":   result.Format,
			"messages": result.Wire,
		})
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "input", "i", "", "JSON file with input variables (default: the task's input example)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "wire format: openai or anthropic (default: from config)")
}

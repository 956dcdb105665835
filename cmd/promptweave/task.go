package main

import (
	"github.com/spf13/cobra"

	"github.com/promptweave/promptweave/internal/cli"
	"github.com/promptweave/promptweave/internal/config"
	"github.com/promptweave/promptweave/internal/schema"
	"github.com/promptweave/promptweave/internal/task"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect task bundles",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List task bundles under the configured task root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := task.NewLoader(logger).LoadAll(cfgManager.Get().TaskRoot)
		if err != nil {
			return err
		}

		rows := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, map[string]any{
				"name":        t.Name,
				"output_type": t.Output.Type,
				"messages":    len(t.Template.Messages),
				"has_example": t.InputExample != nil,
			})
		}
		return cli.Output(rows)
	},
}

var taskValidateCmd = &cobra.Command{
	Use:   "validate <task-dir>",
	Short: "Load a task bundle and compile its schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := task.NewLoader(logger).Load(args[0])
		if err != nil {
			return err
		}

		model, err := t.CompileModel(schema.NewCompiler(logger))
		if err != nil {
			return err
		}

		out := map[string]any{
			"name":        t.Name,
			"output_type": t.Output.Type,
		}
		if model != nil {
			// Prove the exported schema compiles as JSON Schema too.
			if _, err := model.CompileJSONSchema(); err != nil {
				return err
			}
			out["schema"] = model.Name()
		}
		return cli.Output(out)
	},
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		return config.WriteDefault(path)
	},
}

func init() {
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskValidateCmd)
}

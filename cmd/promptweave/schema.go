package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptweave/promptweave/internal/cli"
	"github.com/promptweave/promptweave/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compile, export, and check schema definitions",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export <definition.json>",
	Short: "Compile a schema definition and print its JSON Schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := compileSchemaFile(args[0])
		if err != nil {
			return err
		}
		return cli.Output(model.Describe())
	},
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check <definition.json> <document.json>",
	Short: "Validate a JSON document against a schema definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := compileSchemaFile(args[0])
		if err != nil {
			return err
		}

		doc, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		normalized, err := model.ValidateJSON(doc)
		if err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				issues := make([]map[string]string, 0, len(verr.Issues))
				for _, issue := range verr.Issues {
					issues = append(issues, map[string]string{
						"path":    issue.Path,
						"message": issue.Message,
					})
				}
				if outErr := cli.Output(map[string]any{
					"valid":  false,
					"schema": verr.Schema,
					"issues": issues,
				}); outErr != nil {
					return outErr
				}
				return err
			}
			return err
		}

		return cli.Output(map[string]any{
			"valid":    true,
			"schema":   model.Name(),
			"document": normalized,
		})
	},
}

func compileSchemaFile(path string) (*schema.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema definition: %w", err)
	}
	var cfg schema.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse schema definition: %w", err)
	}
	return schema.NewCompiler(logger).Compile(cfg)
}

func init() {
	schemaCmd.AddCommand(schemaExportCmd)
	schemaCmd.AddCommand(schemaCheckCmd)
}

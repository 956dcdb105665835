// Package task loads prompt task bundles: a directory pairing a prompt
// template with its output schema, generation settings, and an example input.
package task

import (
	"encoding/json"
	"fmt"

	"github.com/promptweave/promptweave/internal/prompt"
	"github.com/promptweave/promptweave/internal/schema"
)

// Output schema kinds.
const (
	OutputPlain      = "plain"
	OutputStructured = "structured"
)

// OutputSchema declares what a task expects back from the model: free text
// or a document validating against a schema definition.
type OutputSchema struct {
	Type   string
	Schema *schema.Config
}

// UnmarshalJSON dispatches on the "type" discriminator and requires a schema
// definition for structured outputs.
func (o *OutputSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   string         `json:"type"`
		Schema *schema.Config `json:"schema"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case OutputPlain:
		if raw.Schema != nil {
			return fmt.Errorf("plain output schema must not carry a schema definition")
		}
	case OutputStructured:
		if raw.Schema == nil {
			return fmt.Errorf("structured output schema requires a schema definition")
		}
	default:
		return fmt.Errorf("unknown output schema type %q", raw.Type)
	}

	o.Type = raw.Type
	o.Schema = raw.Schema
	return nil
}

// Structured reports whether the task expects schema-validated output.
func (o *OutputSchema) Structured() bool {
	return o.Type == OutputStructured
}

// GenerationConfig carries the model call settings bundled with a task,
// keyed by option name so one task can target several providers.
type GenerationConfig struct {
	Options map[string]GenerationOption `json:"options"`
}

// GenerationOption selects a provider and model plus free-form call
// parameters (temperature, max_tokens, and whatever else the provider takes).
type GenerationOption struct {
	Provider   string         `json:"provider"`
	ModelName  string         `json:"model_name"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Option returns a named generation option.
func (g *GenerationConfig) Option(name string) (GenerationOption, bool) {
	opt, ok := g.Options[name]
	return opt, ok
}

// Response format kinds.
const (
	ResponseText       = "text"
	ResponseJSONObject = "json_object"
	ResponseJSONSchema = "json_schema"
)

// ResponseFormat is the response_format wrapper sent to providers: plain
// text, free-form JSON, or a strict named JSON Schema.
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *ResponseSchema `json:"json_schema,omitempty"`
}

// ResponseSchema names and carries the exported JSON Schema.
type ResponseSchema struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict"`
	Schema *schema.JSONSchema `json:"schema"`
}

// Task is one loaded bundle.
type Task struct {
	Name         string
	Dir          string
	Template     *prompt.Template
	Output       OutputSchema
	Generation   *GenerationConfig
	InputExample map[string]any
}

// CompileModel compiles the task's schema definition into a validation
// model. Plain tasks have no model.
func (t *Task) CompileModel(compiler *schema.Compiler) (*schema.Model, error) {
	if !t.Output.Structured() {
		return nil, nil
	}
	model, err := compiler.Compile(*t.Output.Schema)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}
	return model, nil
}

// ResponseFormat builds the provider response-format wrapper: text for
// plain tasks, a strict named JSON Schema for structured ones.
func (t *Task) ResponseFormat(compiler *schema.Compiler) (*ResponseFormat, error) {
	model, err := t.CompileModel(compiler)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return &ResponseFormat{Type: ResponseText}, nil
	}
	return &ResponseFormat{
		Type: ResponseJSONSchema,
		JSONSchema: &ResponseSchema{
			Name:   t.Output.Schema.Name,
			Strict: true,
			Schema: model.Describe(),
		},
	}, nil
}

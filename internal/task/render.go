package task

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/promptweave/promptweave/internal/convert"
	"github.com/promptweave/promptweave/internal/prompt"
)

// RenderResult is one formatted-and-converted invocation of a task.
type RenderResult struct {
	// ID uniquely identifies this render for tracing.
	ID       string
	Task     string
	Format   string
	Messages []prompt.Message
	Wire     []convert.WireMessage
}

// Render formats the task's template against the input and converts the
// result to the named provider format.
func Render(engine *prompt.Engine, registry *convert.Registry, t *Task, format string, input map[string]any) (*RenderResult, error) {
	messages, err := engine.Format(t.Template, input)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}

	wire, err := registry.Convert(format, messages)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}

	return &RenderResult{
		ID:       uuid.New().String(),
		Task:     t.Name,
		Format:   format,
		Messages: messages,
		Wire:     wire,
	}, nil
}

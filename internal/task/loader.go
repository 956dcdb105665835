package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/promptweave/promptweave/internal/prompt"
)

// Bundle file names inside a task directory.
const (
	TemplateFileName   = "prompt_template.yaml"
	SchemaFileName     = "output_schema.json"
	GenerationFileName = "generation_config.json"
	ExampleFileName    = "input_example.json"
)

// Loader reads task bundles from disk.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a task loader. A nil logger falls back to the default
// slog logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads one task bundle. The template and output schema are required;
// generation config and input example are optional.
func (l *Loader) Load(dir string) (*Task, error) {
	t := &Task{
		Name: filepath.Base(filepath.Clean(dir)),
		Dir:  dir,
	}

	templateData, err := os.ReadFile(filepath.Join(dir, TemplateFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read task template: %w", err)
	}
	t.Template, err = prompt.ParseTemplate(templateData)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", t.Name, err)
	}

	schemaData, err := os.ReadFile(filepath.Join(dir, SchemaFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read output schema: %w", err)
	}
	if err := json.Unmarshal(schemaData, &t.Output); err != nil {
		return nil, fmt.Errorf("task %q: failed to parse output schema: %w", t.Name, err)
	}

	if data, err := os.ReadFile(filepath.Join(dir, GenerationFileName)); err == nil {
		var gen GenerationConfig
		if err := json.Unmarshal(data, &gen); err != nil {
			return nil, fmt.Errorf("task %q: failed to parse generation config: %w", t.Name, err)
		}
		t.Generation = &gen
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read generation config: %w", err)
	}

	if data, err := os.ReadFile(filepath.Join(dir, ExampleFileName)); err == nil {
		if err := json.Unmarshal(data, &t.InputExample); err != nil {
			return nil, fmt.Errorf("task %q: failed to parse input example: %w", t.Name, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read input example: %w", err)
	}

	l.logger.Debug("loaded task bundle",
		"task", t.Name,
		"output_type", t.Output.Type,
		"has_generation", t.Generation != nil,
		"has_example", t.InputExample != nil)
	return t, nil
}

// LoadAll reads every subdirectory of root that contains a template file.
func (l *Loader) LoadAll(root string) ([]*Task, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read task root: %w", err)
	}

	var tasks []*Task
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, TemplateFileName)); err != nil {
			continue
		}
		t, err := l.Load(dir)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

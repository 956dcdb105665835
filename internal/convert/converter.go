// Package convert turns provider-agnostic messages into provider wire
// formats. Converters are looked up by format name through a Registry.
package convert

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/promptweave/promptweave/internal/prompt"
)

// WireMessage is one message in a provider's chat wire shape: a role plus a
// list of provider-shaped content parts, ready to marshal as JSON.
type WireMessage struct {
	Role    string           `json:"role"`
	Content []map[string]any `json:"content"`
}

// Converter renders formatted messages into one provider's wire shape.
type Converter interface {
	// Format returns the converter's registry name.
	Format() string
	Convert(messages []prompt.Message) ([]WireMessage, error)
}

// UnsupportedFormatError reports a lookup for a format no converter handles.
type UnsupportedFormatError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported message format %q (supported: %s)",
		e.Name, strings.Join(e.Supported, ", "))
}

// Registry holds converters by format name. Lookup is case-insensitive and
// thread-safe.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
	logger     *slog.Logger
}

// NewRegistry creates a registry seeded with the built-in converters.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		converters: make(map[string]Converter),
		logger:     logger,
	}
	r.Register(OpenAIConverter{})
	r.Register(AnthropicConverter{})
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(nil)
})

// Default returns a process-wide registry with the built-in converters.
func Default() *Registry {
	return defaultRegistry()
}

// Register adds a converter under its format name, replacing any existing
// converter for that name.
func (r *Registry) Register(c Converter) {
	name := strings.ToLower(c.Format())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[name]; exists {
		r.logger.Info("replaced message converter", "format", name)
	} else {
		r.logger.Info("registered message converter", "format", name)
	}
	r.converters[name] = c
}

// Get returns the converter for a format name, ignoring case.
func (r *Registry) Get(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[strings.ToLower(name)]
	if !ok {
		return nil, &UnsupportedFormatError{Name: name, Supported: r.names()}
	}
	return c, nil
}

// Convert looks up a converter and applies it in one step.
func (r *Registry) Convert(format string, messages []prompt.Message) ([]WireMessage, error) {
	c, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return c.Convert(messages)
}

// List returns the registered format names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

// names must be called with the lock held.
func (r *Registry) names() []string {
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

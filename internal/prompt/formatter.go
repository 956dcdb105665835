package prompt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/promptweave/promptweave/internal/imageio"
)

// Engine formats templates against runtime variable scopes.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a formatting engine. A nil logger falls back to the
// default slog logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Format renders every message template in order against the input variables
// and returns the resulting messages. Input is never mutated.
func (e *Engine) Format(tmpl *Template, input map[string]any) ([]Message, error) {
	renderer, err := RendererFor(tmpl.TemplateFormat)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = map[string]any{}
	}

	messages := make([]Message, 0, len(tmpl.Messages))
	for i, msg := range tmpl.Messages {
		switch m := msg.(type) {
		case *SingleMessage:
			block, err := e.formatContent(renderer, m.Content, input)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			blocks := []ContentBlock{}
			if block != nil {
				blocks = append(blocks, block)
			}
			messages = append(messages, Message{Role: m.Role, Blocks: blocks})

		case *IterableMessage:
			blocks, err := e.formatIterableMessage(renderer, m, input)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			messages = append(messages, Message{Role: m.Role, Blocks: blocks})

		default:
			return nil, fmt.Errorf("message %d: unhandled message template %T", i, msg)
		}
	}

	e.logger.Debug("formatted template",
		"template", tmpl.Name,
		"messages", len(messages))
	return messages, nil
}

// formatIterableMessage gathers blocks from every content group, formatted
// once per element of the message's iteration list. A mapping element becomes
// the variable scope for that iteration; a scalar element is wrapped under
// the message's input key. A missing or empty list yields a message with no
// blocks. A non-list value is treated as a single iteration.
func (e *Engine) formatIterableMessage(renderer Renderer, msg *IterableMessage, input map[string]any) ([]ContentBlock, error) {
	value, ok := input[msg.InputKey]
	if !ok {
		e.logger.Debug("iterable message input key absent, emitting empty message", "input_key", msg.InputKey)
		return []ContentBlock{}, nil
	}

	items, isList := asSlice(value)
	if !isList {
		items = []any{value}
	}

	var blocks []ContentBlock
	for _, item := range wrapElements(items, msg.InputKey) {
		for _, group := range msg.Contents {
			groupBlocks, err := e.formatGroup(renderer, group, item)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, groupBlocks...)
		}
	}
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	return blocks, nil
}

// formatGroup formats one content group against the given variable scope.
// Static groups format each item once; iterable groups resolve their
// iteration source and format items once per iteration, with the iteration
// scope layered over the enclosing one.
func (e *Engine) formatGroup(renderer Renderer, group ContentGroup, vars map[string]any) ([]ContentBlock, error) {
	switch g := group.(type) {
	case StaticGroup:
		blocks := make([]ContentBlock, 0, len(g.Items))
		for _, item := range g.Items {
			block, err := e.formatContent(renderer, item, vars)
			if err != nil {
				return nil, err
			}
			if block != nil {
				blocks = append(blocks, block)
			}
		}
		return blocks, nil

	case *IterableGroup:
		return e.formatIterableGroup(renderer, g, vars)
	}
	return nil, fmt.Errorf("unhandled content group %T", group)
}

func (e *Engine) formatIterableGroup(renderer Renderer, group *IterableGroup, vars map[string]any) ([]ContentBlock, error) {
	scopes, err := iterationScopes(group, vars)
	if err != nil {
		return nil, err
	}

	var blocks []ContentBlock
	for _, scope := range scopes {
		merged := mergeScope(vars, scope)
		for _, item := range group.Items {
			switch it := item.(type) {
			case TextTemplate, ImageTemplate:
				block, err := e.formatContent(renderer, it.(ContentTemplate), merged)
				if err != nil {
					return nil, err
				}
				if block != nil {
					blocks = append(blocks, block)
				}
			case *IterableGroup:
				nested, err := e.formatIterableGroup(renderer, it, merged)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, nested...)
			default:
				return nil, fmt.Errorf("unhandled group item %T", item)
			}
		}
	}
	return blocks, nil
}

// mergeScope layers the iteration scope over the enclosing one, iteration
// values winning on collision.
func mergeScope(outer, inner map[string]any) map[string]any {
	merged := make(map[string]any, len(outer)+len(inner))
	for k, v := range outer {
		merged[k] = v
	}
	for k, v := range inner {
		merged[k] = v
	}
	return merged
}

// formatContent renders one content template into a block. Text templates
// declaring input variables see only those; with none declared the full
// scope applies. An absent or empty image reference yields a nil block with
// no error, so the item simply contributes nothing; inline data URLs must
// parse.
func (e *Engine) formatContent(renderer Renderer, content ContentTemplate, vars map[string]any) (ContentBlock, error) {
	switch c := content.(type) {
	case TextTemplate:
		scope := vars
		if len(c.InputVariables) > 0 {
			scope = make(map[string]any, len(c.InputVariables))
			for _, name := range c.InputVariables {
				if value, ok := vars[name]; ok {
					scope[name] = value
				}
			}
		}
		text, err := renderer.Render(c.Content, scope)
		if err != nil {
			return nil, err
		}
		return TextBlock{Text: text}, nil

	case ImageTemplate:
		value, ok := vars[c.InputName]
		if !ok || value == nil {
			e.logger.Debug("image input absent, skipping block", "input_name", c.InputName)
			return nil, nil
		}
		url, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("image input %q must be a string, got %T", c.InputName, value)
		}
		if url == "" {
			return nil, nil
		}
		block := ImageBlock{URL: url}
		if strings.HasPrefix(url, imageio.DataURLPrefix) {
			parsed, err := imageio.ParseDataURL(url)
			if err != nil {
				return nil, fmt.Errorf("image input %q: %w", c.InputName, err)
			}
			block.Source = &parsed
		}
		return block, nil
	}
	return nil, fmt.Errorf("unhandled content template %T", content)
}

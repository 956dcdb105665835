// Package prompt turns declarative prompt templates plus a runtime variable
// map into role-tagged content blocks.
//
// A Template is an ordered list of message templates. Each message is either
// "single" (one content template formatted against the top-level input) or
// "iterable" (groups of content templates formatted once per element of an
// input list). Content templates are text (string template plus declared
// input variables) or image (the name of the variable holding the image
// reference). Groups are "static" (formatted once) or "iterable" (formatted
// once per resolved iteration; may nest).
//
// All template variants are closed tagged unions discriminated by a "type"
// field; decoding an unknown discriminator fails.
package prompt

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Discriminator values used in template specification documents.
const (
	TypeText     = "text"
	TypeImage    = "image"
	TypeStatic   = "static"
	TypeIterable = "iterable"
	TypeSingle   = "single"
)

// Template formats understood by the engine.
const (
	FormatFString = "f-string"
	FormatJinja2  = "jinja2"
)

// DefaultRole is assumed when a message template omits its role.
const DefaultRole = "user"

// TextTemplate is a string template plus the variables it consumes.
type TextTemplate struct {
	Content        string   `yaml:"content"`
	InputVariables []string `yaml:"input_variables"`
}

// ImageTemplate names the variable holding an image reference.
type ImageTemplate struct {
	InputName string `yaml:"input_name"`
}

// ContentTemplate is the text-or-image union.
type ContentTemplate interface{ contentTemplate() }

func (TextTemplate) contentTemplate()  {}
func (ImageTemplate) contentTemplate() {}

// GroupItem is anything an iterable group may contain: a content template
// or a nested iterable group.
type GroupItem interface{ groupItem() }

func (TextTemplate) groupItem()   {}
func (ImageTemplate) groupItem()  {}
func (*IterableGroup) groupItem() {}

// StaticGroup formats each item exactly once.
type StaticGroup struct {
	Items []ContentTemplate
}

// IterableGroup formats its items once per resolved iteration. InputKey
// optionally names the list variable to iterate; when empty the iteration
// source is inferred from the items' declared variables.
type IterableGroup struct {
	Items    []GroupItem
	InputKey string
}

// ContentGroup is the static-or-iterable union.
type ContentGroup interface{ contentGroup() }

func (StaticGroup) contentGroup()    {}
func (*IterableGroup) contentGroup() {}

// SingleMessage emits one message from one content template.
type SingleMessage struct {
	Role    string
	Content ContentTemplate
}

// IterableMessage emits one message whose blocks are gathered by iterating
// the list named by InputKey and formatting every group per element.
type IterableMessage struct {
	Role     string
	Contents []ContentGroup
	InputKey string
}

// MessageTemplate is the single-or-iterable union.
type MessageTemplate interface{ messageTemplate() }

func (*SingleMessage) messageTemplate()   {}
func (*IterableMessage) messageTemplate() {}

// Template is a named prompt template.
type Template struct {
	Name           string
	TemplateFormat string
	Messages       []MessageTemplate
}

// UnmarshalYAML decodes the template specification document, dispatching
// each union on its "type" discriminator.
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name           string      `yaml:"name"`
		TemplateFormat string      `yaml:"template_format"`
		Templates      []yaml.Node `yaml:"templates"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	t.Name = raw.Name
	t.TemplateFormat = raw.TemplateFormat
	if t.TemplateFormat == "" {
		t.TemplateFormat = FormatFString
	}
	if len(raw.Templates) == 0 {
		return fmt.Errorf("template %q declares no message templates", t.Name)
	}

	t.Messages = make([]MessageTemplate, 0, len(raw.Templates))
	for i := range raw.Templates {
		msg, err := decodeMessageTemplate(&raw.Templates[i])
		if err != nil {
			return fmt.Errorf("template %q, message %d: %w", t.Name, i, err)
		}
		t.Messages = append(t.Messages, msg)
	}
	return nil
}

func discriminator(node *yaml.Node) (string, error) {
	var probe struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&probe); err != nil {
		return "", err
	}
	return probe.Type, nil
}

func decodeMessageTemplate(node *yaml.Node) (MessageTemplate, error) {
	kind, err := discriminator(node)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TypeSingle:
		var raw struct {
			Role    string    `yaml:"role"`
			Content yaml.Node `yaml:"content"`
		}
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		content, err := decodeContentTemplate(&raw.Content)
		if err != nil {
			return nil, err
		}
		return &SingleMessage{Role: roleOrDefault(raw.Role), Content: content}, nil

	case TypeIterable:
		var raw struct {
			Role     string      `yaml:"role"`
			Contents []yaml.Node `yaml:"contents"`
			InputKey string      `yaml:"input_key"`
		}
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		groups := make([]ContentGroup, 0, len(raw.Contents))
		for i := range raw.Contents {
			group, err := decodeContentGroup(&raw.Contents[i])
			if err != nil {
				return nil, fmt.Errorf("content group %d: %w", i, err)
			}
			groups = append(groups, group)
		}
		return &IterableMessage{Role: roleOrDefault(raw.Role), Contents: groups, InputKey: raw.InputKey}, nil
	}
	return nil, fmt.Errorf("unknown message template type %q", kind)
}

func decodeContentTemplate(node *yaml.Node) (ContentTemplate, error) {
	kind, err := discriminator(node)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TypeText:
		var text TextTemplate
		if err := node.Decode(&text); err != nil {
			return nil, err
		}
		return text, nil
	case TypeImage:
		var image ImageTemplate
		if err := node.Decode(&image); err != nil {
			return nil, err
		}
		return image, nil
	}
	return nil, fmt.Errorf("unknown content template type %q", kind)
}

func decodeContentGroup(node *yaml.Node) (ContentGroup, error) {
	kind, err := discriminator(node)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TypeStatic:
		var raw struct {
			Items []yaml.Node `yaml:"items"`
		}
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		if len(raw.Items) == 0 {
			return nil, fmt.Errorf("static group declares no items")
		}
		items := make([]ContentTemplate, 0, len(raw.Items))
		for i := range raw.Items {
			item, err := decodeContentTemplate(&raw.Items[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return StaticGroup{Items: items}, nil

	case TypeIterable:
		return decodeIterableGroup(node)
	}
	return nil, fmt.Errorf("unknown content group type %q", kind)
}

func decodeIterableGroup(node *yaml.Node) (*IterableGroup, error) {
	var raw struct {
		Items    []yaml.Node `yaml:"items"`
		InputKey string      `yaml:"input_key"`
	}
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw.Items) == 0 {
		return nil, fmt.Errorf("iterable group declares no items")
	}

	group := &IterableGroup{InputKey: raw.InputKey}
	for i := range raw.Items {
		kind, err := discriminator(&raw.Items[i])
		if err != nil {
			return nil, err
		}
		switch kind {
		case TypeText, TypeImage:
			item, err := decodeContentTemplate(&raw.Items[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			group.Items = append(group.Items, item.(GroupItem))
		case TypeIterable:
			nested, err := decodeIterableGroup(&raw.Items[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			group.Items = append(group.Items, nested)
		default:
			return nil, fmt.Errorf("item %d: unknown iterable group item type %q", i, kind)
		}
	}
	return group, nil
}

func roleOrDefault(role string) string {
	if role == "" {
		return DefaultRole
	}
	return role
}

// ParseTemplate decodes a template specification from YAML (or JSON, which
// YAML subsumes).
func ParseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &tmpl, nil
}

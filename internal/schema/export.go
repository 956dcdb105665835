package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema is the exported machine-readable description of a compiled
// model. It covers the subset of JSON Schema the dtype system can express.
type JSONSchema struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Object
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties any                    `json:"additionalProperties,omitempty"`

	// Array
	Items    *JSONSchema `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	// String
	Pattern string `json:"pattern,omitempty"`
	Format  string `json:"format,omitempty"`

	// Number
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
}

// Describe exports the model as a JSON Schema document tree.
func (m *Model) Describe() *JSONSchema {
	return objectSchema(m.root)
}

// JSONSchema exports the model as serialized JSON Schema.
func (m *Model) JSONSchema() (json.RawMessage, error) {
	raw, err := json.Marshal(m.Describe())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema %s: %w", m.name, err)
	}
	return raw, nil
}

// CompileJSONSchema compiles the exported document with a draft JSON Schema
// validator, for callers that want ecosystem validation semantics alongside
// the model's own.
func (m *Model) CompileJSONSchema() (*jsonschema.Schema, error) {
	raw, err := m.JSONSchema()
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load exported schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile exported schema: %w", err)
	}
	return compiled, nil
}

func objectSchema(obj *objectType) *JSONSchema {
	out := &JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]*JSONSchema, len(obj.fields)),
		AdditionalProperties: false,
	}
	for _, f := range obj.fields {
		fieldSchema := typeSchema(f.typ)
		if f.spec != nil {
			applyMetadata(fieldSchema, f.spec)
		}
		out.Properties[f.name] = fieldSchema
		if !f.optional {
			out.Required = append(out.Required, f.name)
		}
	}
	return out
}

func typeSchema(t dtype) *JSONSchema {
	switch typ := t.(type) {
	case *scalarType:
		return &JSONSchema{Type: typ.kind.String()}
	case *enumType:
		return &JSONSchema{Type: typ.kind.String(), Enum: append([]any(nil), typ.values...)}
	case *listType:
		return &JSONSchema{Type: "array", Items: typeSchema(typ.elem)}
	case *objectType:
		return objectSchema(typ)
	}
	// The type tree is closed; reaching here means a new dtype variant was
	// added without an export case.
	panic(fmt.Sprintf("unhandled dtype %T", t))
}

// applyMetadata copies the declaration's inert metadata onto the exported
// field schema: array bounds on the outer array, string/number constraints
// on the innermost scalar.
func applyMetadata(s *JSONSchema, spec *DtypeSpec) {
	s.Description = spec.Description
	if s.Type == "array" {
		s.MinItems = spec.MinItems
		s.MaxItems = spec.MaxItems
	}

	inner := s
	for inner.Items != nil {
		inner = inner.Items
	}
	switch inner.Type {
	case "string":
		inner.Pattern = spec.Pattern
		inner.Format = spec.Format
	case "integer", "number":
		inner.MultipleOf = spec.MultipleOf
		inner.Minimum = spec.Minimum
		inner.Maximum = spec.Maximum
		inner.ExclusiveMinimum = spec.ExclusiveMinimum
		inner.ExclusiveMaximum = spec.ExclusiveMaximum
	}
}

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Issue is one validation failure, located by a JSON-ish path like
// "items[2].bbox.x1".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError aggregates every issue found in one Validate call.
type ValidationError struct {
	Schema string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("document does not match schema %q: %s", e.Schema, strings.Join(msgs, "; "))
}

// dtype is a node in the compiled type tree. validate checks v, appends any
// issues, and returns the normalized value (nil when invalid).
type dtype interface {
	validate(path string, v any, add func(Issue)) any
}

type scalarType struct {
	kind Kind
}

func (t *scalarType) validate(path string, v any, add func(Issue)) any {
	normalized, ok := normalizeScalar(t.kind, v)
	if !ok {
		add(Issue{Path: path, Message: fmt.Sprintf("expected %s, got %s", t.kind, typeName(v))})
		return nil
	}
	return normalized
}

// enumType restricts a scalar kind to a closed value set.
type enumType struct {
	kind   Kind
	values []any // normalized at compile time
}

func (t *enumType) validate(path string, v any, add func(Issue)) any {
	normalized, ok := normalizeScalar(t.kind, v)
	if !ok {
		add(Issue{Path: path, Message: fmt.Sprintf("expected %s, got %s", t.kind, typeName(v))})
		return nil
	}
	for _, allowed := range t.values {
		if normalized == allowed {
			return normalized
		}
	}
	add(Issue{Path: path, Message: fmt.Sprintf("value %v not in allowed set %v", normalized, t.values)})
	return nil
}

type listType struct {
	elem dtype
}

func (t *listType) validate(path string, v any, add func(Issue)) any {
	items, ok := toSlice(v)
	if !ok {
		add(Issue{Path: path, Message: fmt.Sprintf("expected array, got %s", typeName(v))})
		return nil
	}
	parsed := make([]any, 0, len(items))
	for i, item := range items {
		parsed = append(parsed, t.elem.validate(fmt.Sprintf("%s[%d]", path, i), item, add))
	}
	return parsed
}

type objectField struct {
	name     string
	typ      dtype
	optional bool
	spec     *DtypeSpec // declaration metadata, used by the JSON Schema export
}

// objectType is a closed structure: undeclared keys are rejected.
type objectType struct {
	name   string
	fields []objectField
}

func (t *objectType) validate(path string, v any, add func(Issue)) any {
	m, ok := toMap(v)
	if !ok {
		add(Issue{Path: path, Message: fmt.Sprintf("expected object %s, got %s", t.name, typeName(v))})
		return nil
	}

	declared := make(map[string]bool, len(t.fields))
	parsed := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		declared[f.name] = true
		fieldPath := f.name
		if path != "" {
			fieldPath = path + "." + f.name
		}
		value, present := m[f.name]
		switch {
		case !present || value == nil:
			if !f.optional {
				add(Issue{Path: fieldPath, Message: "required field is missing"})
				continue
			}
			parsed[f.name] = nil
		default:
			parsed[f.name] = f.typ.validate(fieldPath, value, add)
		}
	}

	for key := range m {
		if !declared[key] {
			keyPath := key
			if path != "" {
				keyPath = path + "." + key
			}
			add(Issue{Path: keyPath, Message: fmt.Sprintf("field not declared in schema %s", t.name)})
		}
	}
	return parsed
}

// Model is the compiled product of a schema Config: a validator over
// candidate documents plus a machine-readable description. A Model is
// immutable and safe for concurrent use.
type Model struct {
	name string
	root *objectType
}

// Name returns the schema name the model was compiled from.
func (m *Model) Name() string { return m.name }

// Validate checks a decoded document (maps, slices, scalars) against the
// schema. On success it returns the normalized document: integers as int64,
// numbers as float64, optional absent fields as nil. On failure it returns a
// *ValidationError carrying every issue found.
func (m *Model) Validate(doc any) (any, error) {
	var issues []Issue
	parsed := m.root.validate("", doc, func(i Issue) { issues = append(issues, i) })
	if len(issues) > 0 {
		return nil, &ValidationError{Schema: m.name, Issues: issues}
	}
	return parsed, nil
}

// ValidateJSON decodes raw JSON and validates it.
func (m *Model) ValidateJSON(raw json.RawMessage) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode candidate JSON: %w", err)
	}
	return m.Validate(doc)
}

func normalizeScalar(kind Kind, v any) (any, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			if n == math.Trunc(n) {
				return int64(n), true
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case float64:
			return n, true
		}
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	}
	return nil, false
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		m[key.String()] = rv.MapIndex(key).Interface()
	}
	return m, true
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

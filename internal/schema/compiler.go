package schema

import (
	"fmt"
	"log/slog"
)

// Compiler builds Models from schema Configs. Custom types are resolved on
// demand with a per-invocation cache, so every reference to the same custom
// type shares one compiled instance, and an in-progress set so recursive
// definitions fail instead of looping.
//
// The cache is reset at the start of every Compile call; a single Compiler
// must not be used from multiple goroutines concurrently.
type Compiler struct {
	logger *slog.Logger

	built    map[string]*objectType
	building map[string]bool
	specs    map[string]CustomDType
}

// NewCompiler creates a schema compiler.
func NewCompiler(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{logger: logger}
}

// Compile builds the root Model from a Config, building any referenced
// custom types on demand. Compilation errors abort the whole call; no
// partial model is returned.
func (c *Compiler) Compile(cfg Config) (*Model, error) {
	c.built = make(map[string]*objectType)
	c.building = make(map[string]bool)
	c.specs = make(map[string]CustomDType, len(cfg.CustomDTypes))

	for _, custom := range cfg.CustomDTypes {
		if _, exists := c.specs[custom.Name]; exists {
			return nil, &DuplicateCustomTypeError{Name: custom.Name}
		}
		c.specs[custom.Name] = custom
	}

	root, err := c.buildObject(cfg.Name, cfg.Fields)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("compiled schema model",
		"name", cfg.Name,
		"fields", len(cfg.Fields),
		"custom_dtypes", len(cfg.CustomDTypes))

	return &Model{name: cfg.Name, root: root}, nil
}

// buildObject compiles a field list into a closed structure type. Used for
// the root schema and for each custom type.
func (c *Compiler) buildObject(name string, fields []Field) (*objectType, error) {
	obj := &objectType{name: name, fields: make([]objectField, 0, len(fields))}
	seen := make(map[string]bool, len(fields))

	for i := range fields {
		field := fields[i]
		if seen[field.Name] {
			return nil, fmt.Errorf("schema %s: duplicate field %q", name, field.Name)
		}
		seen[field.Name] = true

		typ, err := c.buildFieldType(name, field)
		if err != nil {
			return nil, err
		}
		obj.fields = append(obj.fields, objectField{
			name:     field.Name,
			typ:      typ,
			optional: field.Spec.Optional,
			spec:     &fields[i].Spec,
		})
	}
	return obj, nil
}

// buildFieldType resolves a field's base dtype, applies the enum restriction,
// then expands the declared dim.
func (c *Compiler) buildFieldType(owner string, field Field) (dtype, error) {
	base, err := c.resolveDtype(field.Spec.Dtype)
	if err != nil {
		return nil, fmt.Errorf("schema %s, field %q: %w", owner, field.Name, err)
	}

	if len(field.Spec.AllowedValues) > 0 {
		scalar, ok := base.(*scalarType)
		if !ok {
			return nil, fmt.Errorf("schema %s, field %q: allowed_values requires a primitive dtype, got %q",
				owner, field.Name, field.Spec.Dtype)
		}
		values := make([]any, 0, len(field.Spec.AllowedValues))
		for _, raw := range field.Spec.AllowedValues {
			coerced, err := coerceScalar(scalar.kind, raw)
			if err != nil {
				return nil, fmt.Errorf("schema %s, field %q: invalid allowed value: %w", owner, field.Name, err)
			}
			values = append(values, coerced)
		}
		base = &enumType{kind: scalar.kind, values: values}
	}

	switch field.Spec.Dim {
	case 0:
		return base, nil
	case 1:
		return &listType{elem: base}, nil
	case 2:
		return &listType{elem: &listType{elem: base}}, nil
	default:
		return nil, &UnsupportedDimensionError{Field: field.Name, Dim: field.Spec.Dim}
	}
}

// resolveDtype maps a dtype name to a compiled type: primitives and bbox
// first, then the custom-type registry with memoization and cycle detection.
func (c *Compiler) resolveDtype(name string) (dtype, error) {
	if kind, ok := primitiveKind(name); ok {
		return &scalarType{kind: kind}, nil
	}
	if isBboxName(name) {
		return bboxType(), nil
	}

	if built, ok := c.built[name]; ok {
		return built, nil
	}
	if c.building[name] {
		return nil, &CyclicDefinitionError{Name: name}
	}
	spec, ok := c.specs[name]
	if !ok {
		return nil, &UnknownDTypeError{Name: name}
	}

	c.building[name] = true
	obj, err := c.buildObject(spec.Name, spec.Fields)
	if err != nil {
		return nil, err
	}
	c.built[name] = obj
	delete(c.building, name)
	return obj, nil
}

// Package schema compiles declarative field/type specifications into runtime
// validators for structured LLM output.
//
// A Config describes a closed structure: an ordered list of fields, each with
// a DtypeSpec (primitive, bbox, or custom type name; dim 0-2; optional flag;
// optional enumeration). Custom types may reference other custom types but
// never themselves, directly or transitively. Compile produces a Model that
// validates candidate documents and exports a JSON Schema description.
package schema

// Number-valued constraints are pointers so "unset" and "zero" stay distinct
// through YAML/JSON round trips.

// DtypeSpec describes the type of a single field.
type DtypeSpec struct {
	Dim           int    `yaml:"dim" json:"dim"`
	Dtype         string `yaml:"dtype" json:"dtype"`
	AllowedValues []any  `yaml:"allowed_values,omitempty" json:"allowed_values,omitempty"`
	Optional      bool   `yaml:"optional" json:"optional"`

	// Inert metadata: carried into the exported JSON Schema, not
	// interpreted by the validator.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// String constraints.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format  string `yaml:"format,omitempty" json:"format,omitempty"`

	// Number / integer constraints.
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`

	// Array constraints, meaningful when dim >= 1.
	MinItems *int `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems *int `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
}

// Field is a named attribute of a structure.
type Field struct {
	Name string    `yaml:"name" json:"name"`
	Spec DtypeSpec `yaml:"specification" json:"specification"`
}

// CustomDType is a named composite type local to one schema.
type CustomDType struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Config is the root schema specification.
type Config struct {
	Name         string        `yaml:"name" json:"name"`
	Fields       []Field       `yaml:"fields" json:"fields"`
	CustomDTypes []CustomDType `yaml:"custom_dtypes,omitempty" json:"custom_dtypes,omitempty"`
}

package schema

import "fmt"

// UnknownDTypeError indicates a field referenced a dtype name that is neither
// a primitive, bbox, nor a registered custom type.
type UnknownDTypeError struct {
	Name string
}

func (e *UnknownDTypeError) Error() string {
	return fmt.Sprintf("dtype %q not supported", e.Name)
}

// CyclicDefinitionError indicates a custom type references itself, directly
// or through other custom types.
type CyclicDefinitionError struct {
	Name string
}

func (e *CyclicDefinitionError) Error() string {
	return fmt.Sprintf("recursive dtype definition is not allowed: %s", e.Name)
}

// UnsupportedDimensionError indicates a field declared a dim outside {0,1,2}.
type UnsupportedDimensionError struct {
	Field string
	Dim   int
}

func (e *UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("field %q: dim %d not supported (must be 0, 1 or 2)", e.Field, e.Dim)
}

// DuplicateCustomTypeError indicates two custom types share a name.
type DuplicateCustomTypeError struct {
	Name string
}

func (e *DuplicateCustomTypeError) Error() string {
	return fmt.Sprintf("duplicate custom dtype: %s", e.Name)
}

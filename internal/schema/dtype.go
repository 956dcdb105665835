package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the scalar semantic type behind a primitive dtype name.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// primitiveKind maps a dtype name to its scalar kind. Names are matched
// case-insensitively. The second return is false for non-primitive names.
func primitiveKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "string", "str":
		return KindString, true
	case "integer", "int":
		return KindInt, true
	case "number", "float":
		return KindFloat, true
	case "boolean", "bool":
		return KindBool, true
	}
	return 0, false
}

// isBboxName reports whether a dtype name refers to the built-in rectangle type.
func isBboxName(name string) bool {
	return strings.EqualFold(name, "bbox")
}

// bboxFieldNames is the fixed field set of the built-in bbox type.
var bboxFieldNames = []string{"x1", "y1", "x2", "y2"}

// bboxType builds the closed 4-integer rectangle structure.
func bboxType() *objectType {
	intSpec := &scalarType{kind: KindInt}
	fields := make([]objectField, 0, len(bboxFieldNames))
	for _, name := range bboxFieldNames {
		fields = append(fields, objectField{name: name, typ: intSpec})
	}
	return &objectType{name: "bbox", fields: fields}
}

// coerceScalar converts a declared enum value to the target scalar kind.
// Mirrors the source schema's coercion: numeric strings parse, integral
// floats narrow to int, everything stringifies for string fields.
func coerceScalar(kind Kind, v any) (any, error) {
	switch kind {
	case KindString:
		switch s := v.(type) {
		case string:
			return s, nil
		case bool:
			return strconv.FormatBool(s), nil
		case int:
			return strconv.Itoa(s), nil
		case int64:
			return strconv.FormatInt(s, 10), nil
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), nil
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, nil
			}
		}
	case KindFloat:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, nil
			}
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed, nil
			}
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to %s", v, v, kind)
}

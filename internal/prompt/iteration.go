package prompt

import (
	"fmt"
	"reflect"
	"sort"
)

// LengthMismatchError indicates two parallel list variables zipped into an
// iteration source disagree in length.
type LengthMismatchError struct {
	First     string
	FirstLen  int
	Second    string
	SecondLen int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("parallel list variables disagree in length: %s has %d elements, %s has %d",
		e.First, e.FirstLen, e.Second, e.SecondLen)
}

// iterationScopes resolves an iterable group's iteration source: the ordered
// sequence of per-iteration variable scopes. Strategies, in order:
//
//  1. The group's input_key names a list in scope: element mappings are used
//     directly, scalar elements are wrapped under the key.
//  2. Among the variables referenced by the group's immediate items, every
//     list-valued one is a candidate. A first candidate of mappings is the
//     source as-is; otherwise the candidates are zipped index-by-index
//     (all candidates must agree in length).
//  3. With no candidates, every variable in scope is scanned for a list of
//     mappings carrying at least one referenced name; the first such list
//     is adopted wholesale.
//
// An empty result means the group contributes no blocks.
func iterationScopes(group *IterableGroup, vars map[string]any) ([]map[string]any, error) {
	if group.InputKey != "" {
		items, ok := asSlice(vars[group.InputKey])
		if !ok {
			return nil, nil
		}
		return wrapElements(items, group.InputKey), nil
	}

	referenced := referencedVariables(group)
	if len(referenced) == 0 {
		return nil, nil
	}

	// Candidate lists among the referenced names, in reference order.
	type candidate struct {
		name  string
		items []any
	}
	var candidates []candidate
	for _, name := range referenced {
		if items, ok := asSlice(vars[name]); ok {
			candidates = append(candidates, candidate{name: name, items: items})
		}
	}

	if len(candidates) == 0 {
		return scanScopeForSource(vars, referenced), nil
	}

	first := candidates[0]
	if len(first.items) > 0 {
		if _, ok := asMap(first.items[0]); ok {
			return wrapElements(first.items, first.name), nil
		}
	}

	// Parallel scalar lists: zip by index. Lengths must agree.
	for _, c := range candidates[1:] {
		if len(c.items) != len(first.items) {
			return nil, &LengthMismatchError{
				First:     first.name,
				FirstLen:  len(first.items),
				Second:    c.name,
				SecondLen: len(c.items),
			}
		}
	}

	scopes := make([]map[string]any, 0, len(first.items))
	for i := range first.items {
		scope := make(map[string]any, len(referenced))
		for _, name := range referenced {
			value, ok := vars[name]
			if !ok {
				continue
			}
			if items, isList := asSlice(value); isList {
				scope[name] = items[i]
			} else {
				scope[name] = value
			}
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

// referencedVariables collects the variable names used by the group's
// immediate items, in declaration order: declared input variables for text
// items, the input name for image items. Nested groups resolve their own
// sources.
func referencedVariables(group *IterableGroup) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, item := range group.Items {
		switch it := item.(type) {
		case TextTemplate:
			for _, name := range it.InputVariables {
				add(name)
			}
		case ImageTemplate:
			add(it.InputName)
		}
	}
	return names
}

// scanScopeForSource is the wholesale-adoption fallback: the first
// list-of-mappings variable (by sorted name, for determinism) whose first
// element carries at least one referenced name becomes the source.
func scanScopeForSource(vars map[string]any, referenced []string) []map[string]any {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		items, ok := asSlice(vars[name])
		if !ok || len(items) == 0 {
			continue
		}
		firstElem, ok := asMap(items[0])
		if !ok {
			continue
		}
		for _, ref := range referenced {
			if _, present := firstElem[ref]; present {
				return wrapElements(items, name)
			}
		}
	}
	return nil
}

// wrapElements converts iteration elements to scopes: mappings pass through,
// scalars are wrapped under the iteration key.
func wrapElements(items []any, key string) []map[string]any {
	scopes := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := asMap(item); ok {
			scopes = append(scopes, m)
			continue
		}
		scopes = append(scopes, map[string]any{key: item})
	}
	return scopes
}

func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		m[key.String()] = rv.MapIndex(key).Interface()
	}
	return m, true
}

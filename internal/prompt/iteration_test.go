package prompt

import (
	"errors"
	"testing"
)

func textItem(content string, vars ...string) TextTemplate {
	return TextTemplate{Content: content, InputVariables: vars}
}

func TestIterationScopesInputKey(t *testing.T) {
	t.Run("list of mappings used directly", func(t *testing.T) {
		group := &IterableGroup{InputKey: "rows", Items: []GroupItem{textItem("v={x}", "x")}}
		scopes, err := iterationScopes(group, map[string]any{
			"rows": []any{map[string]any{"x": 1}, map[string]any{"x": 2}},
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 {
			t.Fatalf("len(scopes) = %d, want 2", len(scopes))
		}
		if scopes[1]["x"] != 2 {
			t.Errorf("scopes[1][x] = %v, want 2", scopes[1]["x"])
		}
	})

	t.Run("scalar list wrapped under key", func(t *testing.T) {
		group := &IterableGroup{InputKey: "names", Items: []GroupItem{textItem("{names}", "names")}}
		scopes, err := iterationScopes(group, map[string]any{"names": []any{"a", "b"}})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 || scopes[0]["names"] != "a" {
			t.Errorf("scopes = %v, want wrapped scalars", scopes)
		}
	})

	t.Run("missing key yields no iterations", func(t *testing.T) {
		group := &IterableGroup{InputKey: "rows", Items: []GroupItem{textItem("v={x}", "x")}}
		scopes, err := iterationScopes(group, map[string]any{"other": 1})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 0 {
			t.Errorf("len(scopes) = %d, want 0", len(scopes))
		}
	})
}

func TestIterationScopesCandidateLists(t *testing.T) {
	t.Run("parallel scalar lists zipped", func(t *testing.T) {
		group := &IterableGroup{Items: []GroupItem{textItem("{a}:{b}", "a", "b")}}
		scopes, err := iterationScopes(group, map[string]any{
			"a": []any{1, 2},
			"b": []any{"x", "y"},
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 {
			t.Fatalf("len(scopes) = %d, want 2", len(scopes))
		}
		if scopes[0]["a"] != 1 || scopes[0]["b"] != "x" {
			t.Errorf("scopes[0] = %v, want {a:1 b:x}", scopes[0])
		}
	})

	t.Run("scalar variable repeated across iterations", func(t *testing.T) {
		group := &IterableGroup{Items: []GroupItem{textItem("{a} of {total}", "a", "total")}}
		scopes, err := iterationScopes(group, map[string]any{
			"a":     []any{1, 2},
			"total": 2,
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 || scopes[0]["total"] != 2 || scopes[1]["total"] != 2 {
			t.Errorf("scopes = %v, want total repeated", scopes)
		}
	})

	t.Run("length mismatch fails fast", func(t *testing.T) {
		group := &IterableGroup{Items: []GroupItem{textItem("{a}:{b}", "a", "b")}}
		_, err := iterationScopes(group, map[string]any{
			"a": []any{1, 2, 3},
			"b": []any{"x"},
		})
		var mismatch *LengthMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("iterationScopes() error = %v, want *LengthMismatchError", err)
		}
		if mismatch.First != "a" || mismatch.FirstLen != 3 || mismatch.Second != "b" || mismatch.SecondLen != 1 {
			t.Errorf("mismatch = %+v, want a/3 vs b/1", mismatch)
		}
	})

	t.Run("first candidate of mappings wins", func(t *testing.T) {
		group := &IterableGroup{Items: []GroupItem{textItem("{rows}", "rows")}}
		scopes, err := iterationScopes(group, map[string]any{
			"rows": []any{map[string]any{"x": 1}, map[string]any{"x": 2}},
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 || scopes[0]["x"] != 1 {
			t.Errorf("scopes = %v, want the mapping elements", scopes)
		}
	})
}

func TestIterationScopesScanFallback(t *testing.T) {
	group := &IterableGroup{Items: []GroupItem{textItem("{x}", "x")}}

	t.Run("adopts list of mappings carrying a referenced name", func(t *testing.T) {
		scopes, err := iterationScopes(group, map[string]any{
			"unrelated": "scalar",
			"records":   []any{map[string]any{"x": 10}, map[string]any{"x": 20}},
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 2 || scopes[1]["x"] != 20 {
			t.Errorf("scopes = %v, want records adopted", scopes)
		}
	})

	t.Run("no matching source yields no iterations", func(t *testing.T) {
		scopes, err := iterationScopes(group, map[string]any{
			"records": []any{map[string]any{"y": 1}},
		})
		if err != nil {
			t.Fatalf("iterationScopes() error = %v", err)
		}
		if len(scopes) != 0 {
			t.Errorf("len(scopes) = %d, want 0", len(scopes))
		}
	})
}

package prompt

import (
	"errors"
	"testing"
)

func TestFStringRenderer(t *testing.T) {
	r := FStringRenderer{}
	vars := map[string]any{"name": "World", "count": 3}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple substitution", "Hello {name}", "Hello World"},
		{"numeric value", "{count} items", "3 items"},
		{"unknown placeholder left intact", "Hello {missing}", "Hello {missing}"},
		{"escaped braces", "{{literal}} and {name}", "{literal} and World"},
		{"no placeholders", "plain text", "plain text"},
		{"unterminated brace", "tail {name", "tail {name"},
		{"json-looking body", `{"k": "{name}"}`, `{"k": "World"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.text, vars)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestStrictRenderer(t *testing.T) {
	r := StrictRenderer{}

	t.Run("substitutes present variables", func(t *testing.T) {
		got, err := r.Render("Hello {{ name }}, {{count}} items", map[string]any{"name": "World", "count": 3})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if want := "Hello World, 3 items"; got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})

	t.Run("missing variable fails", func(t *testing.T) {
		_, err := r.Render("Hello {{ name }}", map[string]any{"other": 1})
		var missing *MissingVariableError
		if !errors.As(err, &missing) {
			t.Fatalf("Render() error = %v, want *MissingVariableError", err)
		}
		if missing.Name != "name" {
			t.Errorf("missing.Name = %q, want %q", missing.Name, "name")
		}
	})

	t.Run("nil scope fails on any reference", func(t *testing.T) {
		_, err := r.Render("{{ x }}", nil)
		var missing *MissingVariableError
		if !errors.As(err, &missing) {
			t.Fatalf("Render() error = %v, want *MissingVariableError", err)
		}
	})
}

func TestRendererFor(t *testing.T) {
	if _, err := RendererFor(FormatFString); err != nil {
		t.Errorf("RendererFor(f-string) error = %v", err)
	}
	if _, err := RendererFor(FormatJinja2); err != nil {
		t.Errorf("RendererFor(jinja2) error = %v", err)
	}
	if _, err := RendererFor("mustache"); err == nil {
		t.Error("RendererFor(mustache) error = nil, want error")
	}
}

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("{b} then {a}, {a} again, {{escaped}} skipped")
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("ExtractVariables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExtractVariables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHashText(t *testing.T) {
	a, b := HashText("hello"), HashText("hello")
	if a != b {
		t.Errorf("HashText not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len(hash) = %d, want 64 hex chars", len(a))
	}
	if HashText("other") == a {
		t.Error("distinct inputs produced identical hashes")
	}
}

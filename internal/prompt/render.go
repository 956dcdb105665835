package prompt

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// MissingVariableError is returned by the strict renderer when a template
// references a variable absent from the scope.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing template variable %q", e.Name)
}

// Renderer substitutes a variable scope into a text template.
type Renderer interface {
	Render(text string, vars map[string]any) (string, error)
}

// RendererFor maps a declared template format to its engine. The f-string
// engine is lenient (extra or missing context never fails); the jinja2
// engine is strict and reports missing variables.
func RendererFor(format string) (Renderer, error) {
	switch format {
	case FormatFString:
		return FStringRenderer{}, nil
	case FormatJinja2:
		return StrictRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported template format %q", format)
}

// FStringRenderer substitutes {name} placeholders. Doubled braces escape
// literals; placeholders with no matching variable are left untouched.
type FStringRenderer struct{}

func (FStringRenderer) Render(text string, vars map[string]any) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				out.WriteString(text[i:])
				return out.String(), nil
			}
			name := text[i+1 : i+end]
			if !isIdentifier(name) {
				// Not a placeholder; rescan past the brace so nested
				// placeholders still resolve.
				out.WriteByte('{')
				i++
				continue
			}
			if value, ok := vars[name]; ok {
				fmt.Fprintf(&out, "%v", value)
			} else {
				out.WriteString(text[i : i+end+1])
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			out.WriteByte('}')
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

var (
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	jinjaVarPattern   = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
	missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]+)"`)
)

func isIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// StrictRenderer renders {{ name }} placeholders through text/template with
// missingkey=error, so an absent variable fails with a descriptive error.
type StrictRenderer struct{}

func (StrictRenderer) Render(text string, vars map[string]any) (string, error) {
	// Rewrite bare {{ name }} references into field form so map lookups
	// participate in missing-key detection.
	rewritten := jinjaVarPattern.ReplaceAllString(text, "{{.$1}}")

	tmpl, err := template.New("content").Option("missingkey=error").Parse(rewritten)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	if vars == nil {
		vars = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		if match := missingKeyPattern.FindStringSubmatch(err.Error()); match != nil {
			return "", &MissingVariableError{Name: match[1]}
		}
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

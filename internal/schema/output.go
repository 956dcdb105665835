package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseOutput extracts JSON from raw model output, with lightweight recovery
// for markdown code fences and surrounding prose. The returned value is
// re-serialized in normalized form.
func ParseOutput(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty model output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		normalized, err := json.Marshal(parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize model output: %w", err)
		}
		return normalized, nil
	}

	return nil, fmt.Errorf("no valid JSON found in model output")
}

// ValidateOutput parses raw model output text and validates the extracted
// JSON against the schema.
func (m *Model) ValidateOutput(content string) (any, error) {
	raw, err := ParseOutput(content)
	if err != nil {
		return nil, err
	}
	return m.ValidateJSON(raw)
}

// stripCodeFences removes a surrounding markdown fence, e.g. ```json ... ```.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSONCandidate pulls the outermost {...} or [...] span out of text
// that wraps JSON in commentary.
func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)

	objectStart := strings.Index(trimmed, "{")
	arrayStart := strings.Index(trimmed, "[")

	start := -1
	closeChar := ""
	switch {
	case objectStart >= 0 && (arrayStart < 0 || objectStart < arrayStart):
		start = objectStart
		closeChar = "}"
	case arrayStart >= 0:
		start = arrayStart
		closeChar = "]"
	default:
		return ""
	}

	end := strings.LastIndex(trimmed, closeChar)
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}

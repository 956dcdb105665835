package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
)

// placeholderPattern matches {name} references in f-string templates.
// Doubled braces are escapes, handled by stripping matches whose opening
// brace is itself escaped.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// ExtractVariables returns the sorted, de-duplicated placeholder names
// referenced by an f-string template.
func ExtractVariables(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		start := match[0]
		if start > 0 && text[start-1] == '{' {
			continue // escaped literal brace
		}
		name := text[match[2]:match[3]]
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}

	sort.Strings(vars)
	return vars
}

// HashText returns a SHA-256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

package template

import (
	"regexp"
	"strings"
)

// =============================================================================
// Substitution Functions
// =============================================================================

// placeholderRegex matches {{, }} and {key} in a single alternation so one
// left-to-right pass handles escapes and placeholders together.
// Groups:
//   - Group 1: placeholder key (empty for the escapes)
var placeholderRegex = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render replaces {key} placeholders with values from attrs.
//
// Behavior:
//   - {key} - replaced with attrs["key"]; a missing key fails the whole render
//   - {{ and }} - replaced with a literal { and }
//   - any other brace is copied as-is, so nginx or JSON bodies pass through
//
// Examples:
//
//	Render("./{name}:{port}", map[string]string{"name": "backend", "port": "8080"})
//	// Returns: "./backend:8080", nil
//
//	Render("{{\"ok\": true}}", nil)
//	// Returns: "{\"ok\": true}", nil
//
//	Render("{missing}", nil)
//	// Returns: "", *MissingKeyError{Key: "missing"}
func Render(tmpl string, attrs map[string]string) (string, error) {
	matches := placeholderRegex.FindAllStringSubmatchIndex(tmpl, -1)
	if len(matches) == 0 {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	last := 0
	for _, m := range matches {
		b.WriteString(tmpl[last:m[0]])
		last = m[1]

		token := tmpl[m[0]:m[1]]
		switch token {
		case "{{":
			b.WriteByte('{')
			continue
		case "}}":
			b.WriteByte('}')
			continue
		}

		key := tmpl[m[2]:m[3]]
		val, ok := attrs[key]
		if !ok {
			return "", &MissingKeyError{Key: key}
		}
		b.WriteString(val)
	}
	b.WriteString(tmpl[last:])

	return b.String(), nil
}

// Package ident implements the identifier quoting and casing rules shared
// by the fragment compiler and the generator: snake-casing of mixed-case
// table/column names, pascal-casing of enum type names, and camel-casing of
// result-row keys on the way back out.
package ident

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und) //nolint:gochecknoglobals

// Quote renders a caller-supplied table/column identifier as safe,
// double-quoted SQL text.
//
//   - An identifier that is already quoted (begins and ends with `"`) is
//     passed through unchanged.
//   - An identifier containing any uppercase letter has each dot-separated
//     segment snake-cased, then quoted, then rejoined with `.`.
//   - Otherwise, `.` is replaced with `"."` and the whole string is
//     wrapped in `"…"`.
func Quote(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return name
	}

	if hasUpper(name) {
		segments := strings.Split(name, ".")
		for i, seg := range segments {
			segments[i] = `"` + SnakeCase(seg) + `"`
		}

		return strings.Join(segments, ".")
	}

	return `"` + strings.ReplaceAll(name, ".", `"."`) + `"`
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}

	return false
}

// SnakeCase converts a camelCase or PascalCase segment to snake_case.
// Consecutive uppercase runs (e.g. an acronym) are treated as one word.
func SnakeCase(s string) string {
	if s == "" {
		return s
	}

	var sb strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}

			sb.WriteRune(unicode.ToLower(r))

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

// PascalCase converts a snake_case or lowercase name into PascalCase,
// the convention used for generated enum type names.
func PascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}

	return strings.Join(parts, "")
}

// CamelCase converts a snake_case result-row key into camelCase, the
// convention applied by the default result transform.
func CamelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}

		parts[i] = titleCaser.String(parts[i])
	}

	return strings.Join(parts, "")
}

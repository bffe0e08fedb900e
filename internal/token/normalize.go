package token

import (
	"fmt"
	"strings"
	"unicode"
)

const bearerScheme = "bearer"

// Normalize coerces v to a string, drops a leading case-insensitive
// "Bearer " marker and trims surrounding whitespace. It never fails and
// Normalize(Normalize(v)) == Normalize(v).
func Normalize(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case *string:
		if t == nil {
			return ""
		}
		s = *t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}

	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for hasScheme(s) {
		s = strings.TrimLeftFunc(s[len(bearerScheme):], unicode.IsSpace)
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// hasScheme reports whether s starts with "bearer" followed by whitespace.
func hasScheme(s string) bool {
	if len(s) <= len(bearerScheme) || !strings.EqualFold(s[:len(bearerScheme)], bearerScheme) {
		return false
	}
	return unicode.IsSpace(rune(s[len(bearerScheme)]))
}

// Header renders the Authorization header value for raw, or "" when there
// is no credential.
func Header(raw string) string {
	t := Normalize(raw)
	if t == "" {
		return ""
	}
	return "Bearer " + t
}

package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Camel converts a snake_case identifier to its exported CamelCase form:
// "command_buffer" becomes "CommandBuffer", "data" becomes "Data".
// Empty segments are dropped, so "_x" and "x_" both become "X".
func Camel(ident string) string {
	var b strings.Builder

	for _, part := range strings.Split(ident, "_") {
		if part == "" {
			continue
		}

		b.WriteString(UpperFirst(part))
	}

	return b.String()
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + s[n:]
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}

	return string(unicode.ToLower(r)) + s[n:]
}

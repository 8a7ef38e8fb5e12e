package common

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
)

// PkgAlias returns a usable Go package name for the given directory: its last
// element, lowercased, with every character that cannot appear in an
// identifier dropped. Returns empty string if nothing usable is left.
func PkgAlias(dir string) string {
	if dir == "" {
		return ""
	}

	base := strings.ToLower(filepath.Base(filepath.Clean(dir)))

	var b strings.Builder

	for _, r := range base {
		if r == '_' || unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0) {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if !token.IsIdentifier(name) || name == "_" {
		return ""
	}

	return name
}

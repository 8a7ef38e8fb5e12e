package spec

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a specification error. It is fatal to the one unit it was found
// in.
type Error struct {
	Kind Kind
	// Key locates the offending entry, e.g. "name", "fields[2]" or
	// "imports[0]". Empty for syntax errors.
	Key string
	// Line and Column are 1-based positions of syntax errors; 0 when the
	// decoder did not report one.
	Line   int
	Column int
	// Detail is the human-readable description.
	Detail string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(strings.ReplaceAll(e.Kind.Code(), "_", " "))

	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	}

	if e.Key != "" {
		b.WriteString(" ")
		b.WriteString(e.Key)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries a specification error of the given kind.
func IsKind(err error, kind Kind) bool {
	var serr *Error
	if !errors.As(err, &serr) {
		return false
	}

	return serr.Kind == kind
}

func errorf(kind Kind, key, format string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Detail: fmt.Sprintf(format, args...)}
}

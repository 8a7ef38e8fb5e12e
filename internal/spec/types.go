package spec

import (
	"path/filepath"
	"strings"

	"stagegen/internal/common"
)

// Placeholder is the token in a field type-expression that stands for
// "valid for exactly as long as this object's own storage".
const Placeholder = "'_"

// Spec describes one staged self-referential struct.
type Spec struct {
	// Name is the exported name of the finished struct.
	Name string
	// Namespace seeds the prefix of every generated helper symbol.
	Namespace string
	// Package is the package clause of the generated unit.
	Package string
	// Self replaces every Placeholder in field types.
	Self string
	// Imports are import directives in declaration order.
	Imports []string
	// Fields in construction order.
	Fields []Field
	// Unknown lists the document keys Parse ignored, sorted.
	Unknown []string
}

// Field is one named slot of the struct.
type Field struct {
	// Name is the identifier of the field in the storage layout.
	Name string
	// Type is the type-expression as written, placeholders included.
	Type string
}

// Method returns the exported method name of the field's getter and
// transition.
func (f Field) Method() string {
	return common.Camel(f.Name)
}

// Format selects the document syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}

	return "toml"
}

// FormatFromPath picks the format from a file extension. Anything other
// than .yaml or .yml is read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// reservedMethods are methods every stage or the finished struct defines
// besides the field methods. New and Build end construction; Release ends
// the object's life.
var reservedMethods = map[string]struct{}{
	"New":     {},
	"Build":   {},
	"Release": {},
}

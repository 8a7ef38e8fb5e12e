package spec

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies specification errors.
type Kind int

const (
	_ Kind = iota // zero is not a valid kind

	InvalidName       // name missing or unusable; also namespace, package and self
	InvalidFields     // fields missing, not a list, or empty
	InvalidFieldEntry // a field entry is malformed, duplicated or has a bad type
	ReservedFieldName // a field would shadow a method every stage carries
	InvalidImport     // an import directive cannot be turned into an import spec
	SyntaxError       // the document itself is malformed
)

// Code returns the snake_case code used in diagnostics.
func (k Kind) Code() string {
	switch k {
	case InvalidName:
		return "invalid_name"
	case InvalidFields:
		return "invalid_fields"
	case InvalidFieldEntry:
		return "invalid_field_entry"
	case ReservedFieldName:
		return "reserved_field_name"
	case InvalidImport:
		return "invalid_import"
	case SyntaxError:
		return "syntax_error"
	default:
		return "unknown"
	}
}

package gen

import (
	"io"
	"text/template"
)

// emitHeader writes the package clause, the import block and the
// self-reference brand.
func emitHeader(w io.Writer, u *unitData) error {
	return headerTemplate.Execute(w, u)
}

// emitLayout writes the storage layout, its size and the buffer that owns
// one allocation of it.
func emitLayout(w io.Writer, u *unitData) error {
	return layoutTemplate.Execute(w, u)
}

var headerTemplate = template.Must(template.New("header").Parse(`// Code generated by stagegen. DO NOT EDIT.

package {{.Package}}

import (
	"errors"
	"reflect"
	"unsafe"
{{- if .Imports}}
{{range .Imports}}
	{{.}}
{{- end}}
{{- end}}
)

// {{.Self}} brands field types that borrow from the storage of a {{.Name}}.
type {{.Self}} struct{}
`))

var layoutTemplate = template.Must(template.New("layout").Parse(`
// {{.Layout}} is the storage of a {{.Name}}. It is never built whole:
// each construction stage fills one more field.
type {{.Layout}} struct {
{{- range .Fields}}
	{{.Ident}} {{.Type}}
{{- end}}
}

// {{.Size}} is the length of every {{.Name}} buffer.
const {{.Size}} = unsafe.Sizeof({{.Layout}}{})

// {{.Buffer}} owns the storage of one {{.Name}}. The zero value owns
// nothing. A live buffer has a non-nil ptr even when {{.Size}} is 0.
type {{.Buffer}} struct {
	ptr  unsafe.Pointer
	size uintptr
}

// {{.Alloc}} allocates zeroed storage for a {{.Name}}. Its address does
// not change for the life of the object.
func {{.Alloc}}() {{.Buffer}} {
	return {{.Buffer}}{ptr: unsafe.Pointer(new({{.Layout}})), size: {{.Size}}}
}

// take moves the storage out of b and leaves b empty in the same step.
func (b *{{.Buffer}}) take() {{.Buffer}} {
	out := *b
	*b = {{.Buffer}}{}
	return out
}
`))

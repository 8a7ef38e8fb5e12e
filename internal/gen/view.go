package gen

import (
	"io"
	"text/template"
)

// emitViews writes one view per field. A view checks that the buffer is a
// full layout, reinterprets its address as the layout and returns the
// field's address. Every read and write of a field goes through its view.
func emitViews(w io.Writer, u *unitData) error {
	return viewTemplate.Execute(w, u)
}

var viewTemplate = template.Must(template.New("view").Parse(`
{{- range .Fields}}

// {{.View}} returns {{.Ident}} inside the storage b owns. It panics if b
// is not a full {{$.Name}} buffer.
func {{.View}}(b *{{$.Buffer}}) *{{.Type}} {
	if b.ptr == nil || b.size != {{$.Size}} {
		panic("stagegen: {{$.Name}} storage used outside its construction stages")
	}
	return &(*{{$.Layout}})(b.ptr).{{.Ident}}
}
{{- end}}
`))

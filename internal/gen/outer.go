package gen

import (
	"io"
	"text/template"
)

// emitOuter writes the finished struct: a wrapper over StageN with read
// accessors only.
func emitOuter(w io.Writer, u *unitData) error {
	return outerTemplate.Execute(w, u)
}

var outerTemplate = template.Must(template.New("outer").Parse(`
// {{.Name}} has every field set; none can be replaced. Start one with
// New{{.Name}}, add the remaining fields in order and finish with Build.
type {{.Name}} struct {
	stage {{.Last.Name}}
}

// New{{.Name}} starts a {{.Name}} from its {{.First.Field.Ident}}.
func New{{.Name}}(v {{.First.Field.Type}}) *{{.First.Name}} {
	return New{{.First.Name}}(v)
}
{{- range .Fields}}

// {{.Method}} returns {{.Ident}}.
func (o *{{$.Name}}) {{.Method}}() *{{.Type}} {
	return o.stage.{{.Method}}()
}
{{- end}}

// Release releases every field, last to first.
func (o *{{.Name}}) Release() error {
	return o.stage.Release()
}
`))

package gen

import (
	"io"
	"text/template"
)

// emitStages writes the release helper and Stage1..StageN.
//
// StageK owns a buffer whose fields 1..K are set. It is only reachable from
// Stage1's constructor or StageK-1's transition, so the set prefix is known
// from the type alone. A transition computes the next field while the
// current stage is still whole, then takes the buffer (leaving the stage
// empty) and writes the value past the prefix. The buffer never moves, so
// values pointing into earlier fields stay valid.
func emitStages(w io.Writer, u *unitData) error {
	if err := dropTemplate.Execute(w, u); err != nil {
		return err
	}

	for i := range u.Stages {
		if err := stageTemplate.Execute(w, &u.Stages[i]); err != nil {
			return err
		}
	}

	return nil
}

var dropTemplate = template.Must(template.New("drop").Parse(`
// {{.Drop}} releases the value at p and clears the slot. The value is
// closed when it, or its address, has a Close method. A nil pointer or
// interface is not closed.
func {{.Drop}}[T any](p *T) error {
	var err error
	v := reflect.ValueOf(p).Elem()
	if k := v.Kind(); (k != reflect.Pointer && k != reflect.Interface) || !v.IsNil() {
		switch c := any(*p).(type) {
		case interface{ Close() error }:
			err = c.Close()
		case interface{ Close() }:
			c.Close()
		default:
			switch c := any(p).(type) {
			case interface{ Close() error }:
				err = c.Close()
			case interface{ Close() }:
				c.Close()
			}
		}
	}
	var zero T
	*p = zero
	return err
}
`))

var stageTemplate = template.Must(template.New("stage").Parse(`
// {{.Name}} is a {{.Unit.Name}} under construction with every field up to
// {{.Field.Ident}} set.
type {{.Name}} struct {
	buf {{.Unit.Buffer}}
}
{{- if eq .K 1}}

// New{{.Name}} allocates the storage of a {{.Unit.Name}} and sets {{.Field.Ident}}.
func New{{.Name}}(v {{.Field.Type}}) *{{.Name}} {
	b := {{.Unit.Alloc}}()
	*{{.Field.View}}(&b) = v
	return &{{.Name}}{buf: b}
}
{{- end}}
{{- if .Next}}

// {{.Next.Method}} calls compute with s to produce {{.Next.Ident}}, stores it
// after the fields already set and moves the storage into a {{.NextName}}.
// The value may point into s; it must not point into anything that dies
// before the {{.Unit.Name}}. s is empty afterwards.
func (s *{{.Name}}) {{.Next.Method}}(compute func(*{{.Name}}) {{.Next.Type}}) *{{.NextName}} {
	v := compute(s)
	b := s.buf.take()
	*{{.Next.View}}(&b) = v
	return &{{.NextName}}{buf: b}
}
{{- else}}

// Build finishes the {{.Unit.Name}}. s is empty afterwards.
func (s *{{.Name}}) Build() *{{.Unit.Name}} {
	return &{{.Unit.Name}}{stage: {{.Name}}{buf: s.buf.take()}}
}
{{- end}}
{{- range .Getters}}

// {{.Method}} returns {{.Ident}}.
func (s *{{$.Name}}) {{.Method}}() *{{.Type}} {
	return {{.View}}(&s.buf)
}
{{- end}}

// Release releases the fields set so far, last to first, and frees the
// storage. Releasing an empty stage does nothing. Nil pointer fields are
// skipped.
func (s *{{.Name}}) Release() error {
	b := s.buf.take()
	if b.ptr == nil {
		return nil
	}
	return errors.Join(
{{- range .Reverse}}
		{{$.Unit.Drop}}({{.View}}(&b)),
{{- end}}
	)
}
`))

package gen

import (
	"fmt"
	"slices"
	"strconv"

	"stagegen/internal/spec"
)

// unitData holds all names and types the emitters need for one spec.
type unitData struct {
	Name    string
	Package string
	Self    string
	Imports []string

	Layout string
	Size   string
	Buffer string
	Alloc  string
	Drop   string

	Fields []fieldData
	Stages []stageData
}

// fieldData describes one field as every emitter sees it.
type fieldData struct {
	Ident  string
	Method string
	Type   string
	View   string
}

// stageData describes StageK.
type stageData struct {
	Unit     *unitData
	K        int
	Name     string
	Field    fieldData
	Next     *fieldData
	NextName string
	Getters  []fieldData
	Reverse  []fieldData
}

// baseImports are the import specs of spec.UnitImports.
var baseImports = func() []string {
	out := make([]string, len(spec.UnitImports))
	for i, p := range spec.UnitImports {
		out[i] = strconv.Quote(p)
	}

	return out
}()

// buildUnit gathers the names and types every emitter needs.
func buildUnit(s *spec.Spec) (*unitData, error) {
	y := s.Symbols()

	u := &unitData{
		Name:    s.Name,
		Package: s.Package,
		Self:    s.Self,
		Layout:  y.Layout,
		Size:    y.Size,
		Buffer:  y.Buffer,
		Alloc:   y.Alloc,
		Drop:    y.Drop,
	}

	for _, imp := range s.Imports {
		text, err := spec.ImportSpec(imp)
		if err != nil {
			return nil, err
		}

		if !slices.Contains(baseImports, text) && !slices.Contains(u.Imports, text) {
			u.Imports = append(u.Imports, text)
		}
	}

	for _, f := range s.Fields {
		typ, err := spec.ResolveType(f.Type, s.Self)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		u.Fields = append(u.Fields, fieldData{
			Ident:  f.Name,
			Method: f.Method(),
			Type:   typ,
			View:   y.View(f),
		})
	}

	for k := 1; k <= len(u.Fields); k++ {
		st := stageData{
			Unit:    u,
			K:       k,
			Name:    y.Stage(k),
			Field:   u.Fields[k-1],
			Getters: u.Fields[:k],
		}

		if k < len(u.Fields) {
			next := u.Fields[k]
			st.Next = &next
			st.NextName = y.Stage(k + 1)
		}

		for i := k - 1; i >= 0; i-- {
			st.Reverse = append(st.Reverse, u.Fields[i])
		}

		u.Stages = append(u.Stages, st)
	}

	return u, nil
}

// First returns Stage1.
func (u *unitData) First() stageData {
	return u.Stages[0]
}

// Last returns StageN.
func (u *unitData) Last() stageData {
	return u.Stages[len(u.Stages)-1]
}

package spec

import (
	"fmt"

	"stagegen/internal/common"
)

// UnitImports are the packages every generated unit imports.
var UnitImports = []string{"errors", "reflect", "unsafe"}

// Symbols names the package-level declarations generated for a Spec. The
// namespace seeds two prefixes: an unexported one for helpers and an
// exported one for stage types.
type Symbols struct {
	Layout string
	Size   string
	Buffer string
	Alloc  string
	Drop   string

	prefix   string
	exported string
}

// Symbols returns the generated names of s.
func (s *Spec) Symbols() Symbols {
	prefix := common.LowerFirst(s.Namespace)

	return Symbols{
		Layout:   prefix + "Layout",
		Size:     prefix + "LayoutSize",
		Buffer:   prefix + "Buffer",
		Alloc:    prefix + "Alloc",
		Drop:     prefix + "Drop",
		prefix:   prefix,
		exported: common.Camel(s.Namespace),
	}
}

// View returns the name of the accessor of f inside the storage.
func (y Symbols) View(f Field) string {
	return y.prefix + "View" + f.Method()
}

// Stage returns the name of StageK.
func (y Symbols) Stage(k int) string {
	return fmt.Sprintf("%sStage%d", y.exported, k)
}

// Declaration is one package-level name of a generated unit.
type Declaration struct {
	Name string
	// Key is the document key the name derives from.
	Key string
	// Role says what the name declares, e.g. "the storage layout".
	Role string
}

// Declarations lists every package-level name a unit of s declares, in
// output order except for the brand, which comes last.
func (s *Spec) Declarations() []Declaration {
	y := s.Symbols()

	decls := []Declaration{
		{s.Name, "name", "the struct"},
		{"New" + s.Name, "name", "the constructor"},
		{y.Layout, "namespace", "the storage layout"},
		{y.Size, "namespace", "the layout size"},
		{y.Buffer, "namespace", "the buffer"},
		{y.Alloc, "namespace", "the allocator"},
		{y.Drop, "namespace", "the release helper"},
	}

	for _, f := range s.Fields {
		decls = append(decls, Declaration{y.View(f), "namespace", "the view of " + f.Name})
	}

	for k := 1; k <= len(s.Fields); k++ {
		decls = append(decls, Declaration{y.Stage(k), "namespace", fmt.Sprintf("stage %d", k)})
	}

	decls = append(decls,
		Declaration{"New" + y.Stage(1), "namespace", "the stage 1 constructor"},
		Declaration{s.Self, "self", "the brand type"},
	)

	return decls
}

// checkDeclarations reports the first generated name declared twice. The
// later declaration is blamed, so a self that shadows a helper points at
// self.
func (s *Spec) checkDeclarations() error {
	seen := make(map[string]Declaration)

	for _, d := range s.Declarations() {
		if prev, ok := seen[d.Name]; ok {
			return errorf(InvalidName, d.Key, "%q would name both %s and %s", d.Name, prev.Role, d.Role)
		}

		seen[d.Name] = d
	}

	return nil
}

package spec

import (
	"fmt"
	"go/ast"
	"go/parser"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Warning codes.
const (
	CodeUnknownKey   = "unknown_key"
	CodeUnusedImport = "unused_import"
)

// Warning is a problem in a valid Spec that does not stop generation.
type Warning struct {
	Code   string
	Key    string
	Detail string
}

func (w Warning) String() string {
	return w.Key + ": " + w.Detail
}

// renamedKeys are keys of older documents that have a stagegen equivalent.
var renamedKeys = map[string]string{
	"module": "namespace",
	"use":    "imports",
}

// Lint reports the keys Parse ignored and the import directives no field
// type refers to. An unused import fails to compile in the generated unit.
// Package names of unaliased imports are guessed from their path.
func (s *Spec) Lint() []Warning {
	var out []Warning

	for _, key := range s.Unknown {
		detail := "unknown key ignored"
		if to, ok := renamedKeys[key]; ok {
			detail = fmt.Sprintf("unknown key ignored; use %s instead", to)
		}

		out = append(out, Warning{Code: CodeUnknownKey, Key: key, Detail: detail})
	}

	used := s.qualifiers()

	for i, imp := range s.Imports {
		name, ok := importName(imp)
		if !ok || used[name] {
			continue
		}

		out = append(out, Warning{
			Code:   CodeUnusedImport,
			Key:    fmt.Sprintf("imports[%d]", i),
			Detail: fmt.Sprintf("no field type refers to package %s", name),
		})
	}

	return out
}

// qualifiers returns the package names the field types select from.
func (s *Spec) qualifiers() map[string]bool {
	used := make(map[string]bool)

	for _, f := range s.Fields {
		typ, err := ResolveType(f.Type, s.Self)
		if err != nil {
			continue
		}

		expr, err := parser.ParseExpr(typ)
		if err != nil {
			continue
		}

		ast.Inspect(expr, func(n ast.Node) bool {
			if sel, ok := n.(*ast.SelectorExpr); ok {
				if id, ok := sel.X.(*ast.Ident); ok {
					used[id.Name] = true
				}
			}

			return true
		})
	}

	return used
}

var majorVersionRe = regexp.MustCompile(`^v\d+$`)

// importName returns the name an import directive binds. Blank and dot
// imports, and the imports every unit carries anyway, report false.
func importName(directive string) (string, bool) {
	text, err := ImportSpec(directive)
	if err != nil {
		return "", false
	}

	alias, quoted, found := strings.Cut(text, " ")
	if !found {
		alias, quoted = "", text
	}

	p, err := strconv.Unquote(quoted)
	if err != nil {
		return "", false
	}

	switch {
	case alias == "_" || alias == ".":
		return "", false
	case alias != "":
		return alias, true
	case slices.Contains(UnitImports, p):
		return "", false
	}

	base := path.Base(p)
	if majorVersionRe.MatchString(base) && path.Dir(p) != "." {
		base = path.Base(path.Dir(p))
	}

	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}

	return base, true
}

package spec

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Validate checks names, imports and fields of s. A Spec that passes
// can always be generated.
func (s *Spec) Validate() error {
	if s == nil {
		return errorf(InvalidName, "", "spec is nil")
	}

	if s.Name == "" || !token.IsIdentifier(s.Name) || !token.IsExported(s.Name) {
		return errorf(InvalidName, "name", "%q is not an exported Go identifier", s.Name)
	}

	for _, kv := range [][2]string{
		{"namespace", s.Namespace},
		{"package", s.Package},
		{"self", s.Self},
	} {
		if !isIdent(kv[1]) {
			return errorf(InvalidName, kv[0], "%q is not a Go identifier", kv[1])
		}
	}

	for i, imp := range s.Imports {
		if _, err := ImportSpec(imp); err != nil {
			return errorf(InvalidImport, fmt.Sprintf("imports[%d]", i), "%v", err)
		}
	}

	if len(s.Fields) == 0 {
		return errorf(InvalidFields, "fields", "must not be empty")
	}

	idents := make(map[string]int, len(s.Fields))
	methods := make(map[string]int, len(s.Fields))

	for i, f := range s.Fields {
		key := fmt.Sprintf("fields[%d]", i)

		if !isIdent(f.Name) {
			return errorf(InvalidFieldEntry, key, "%q is not a Go identifier", f.Name)
		}

		m := f.Method()
		if _, ok := reservedMethods[m]; ok {
			return errorf(ReservedFieldName, key, "%q is reserved: stages already define %s", f.Name, m)
		}

		if !token.IsIdentifier(m) || !token.IsExported(m) {
			return errorf(InvalidFieldEntry, key, "%q has no exported method form", f.Name)
		}

		if j, ok := idents[f.Name]; ok {
			return errorf(InvalidFieldEntry, key, "duplicate field %q (first declared at fields[%d])", f.Name, j)
		}

		if j, ok := methods[m]; ok {
			return errorf(InvalidFieldEntry, key, "method %s of %q collides with fields[%d]", m, f.Name, j)
		}

		idents[f.Name] = i
		methods[m] = i

		if _, err := ResolveType(f.Type, s.Self); err != nil {
			return errorf(InvalidFieldEntry, key, "%v", err)
		}
	}

	return s.checkDeclarations()
}

func isIdent(s string) bool {
	return s != "_" && token.IsIdentifier(s)
}

// ResolveType substitutes self for every placeholder in a type-expression
// and returns its canonical Go rendering. The text is checked for syntax
// only; names it refers to are not resolved.
func ResolveType(typeExpr, self string) (string, error) {
	text := strings.ReplaceAll(typeExpr, Placeholder, self)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty type expression")
	}

	fset := token.NewFileSet()

	expr, err := parser.ParseExprFrom(fset, "", text, 0)
	if err != nil {
		return "", fmt.Errorf("%q is not a Go type expression: %w", typeExpr, err)
	}

	if !isTypeExpr(expr) {
		return "", fmt.Errorf("%q is not a Go type expression", typeExpr)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, expr); err != nil {
		return "", fmt.Errorf("rendering %q: %w", typeExpr, err)
	}

	return buf.String(), nil
}

func isTypeExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident, *ast.ArrayType, *ast.MapType, *ast.ChanType,
		*ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.SelectorExpr:
		_, ok := e.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(e.X)
	case *ast.ParenExpr:
		return isTypeExpr(e.X)
	case *ast.IndexExpr:
		return isTypeExpr(e.X) && isTypeExpr(e.Index)
	case *ast.IndexListExpr:
		if !isTypeExpr(e.X) {
			return false
		}

		for _, idx := range e.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// ImportSpec turns an import directive into Go import-spec text. Accepted
// forms are `path`, `"path"` and `alias "path"`, where alias may also be _
// or a dot.
func ImportSpec(directive string) (string, error) {
	parts := strings.Fields(directive)

	var alias, path string

	switch len(parts) {
	case 1:
		path = parts[0]
	case 2:
		alias, path = parts[0], parts[1]
		if alias != "." && alias != "_" && !token.IsIdentifier(alias) {
			return "", fmt.Errorf("invalid import alias %q", alias)
		}
	default:
		return "", fmt.Errorf("malformed import directive %q", directive)
	}

	if !strings.HasPrefix(path, `"`) && !strings.HasPrefix(path, "`") {
		path = strconv.Quote(path)
	}

	p, err := strconv.Unquote(path)
	if err != nil || p == "" || strings.ContainsAny(p, " \t\"`\\") {
		return "", fmt.Errorf("invalid import path %s", path)
	}

	if alias == "" {
		return strconv.Quote(p), nil
	}

	return alias + " " + strconv.Quote(p), nil
}

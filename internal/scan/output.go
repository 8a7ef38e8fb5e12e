package scan

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"stagegen/internal/common"
)

const companionInfix = "_stagegen_"

var companionRe = regexp.MustCompile(companionInfix + `\d+(_test)?\.go$`)

// OutputPath returns the file the unit on line of doc is written to. With an
// empty outDir it sits next to doc; otherwise doc is taken relative to outDir.
// A _test.go document gets a _test.go companion.
func OutputPath(outDir, doc string, line int) string {
	base := filepath.Base(doc)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	suffix := ".go"
	if strings.HasSuffix(base, "_test.go") {
		stem = strings.TrimSuffix(stem, "_test")
		suffix = "_test.go"
	}

	name := fmt.Sprintf("%s%s%d%s", stem, companionInfix, line, suffix)

	if outDir == "" {
		return filepath.Join(filepath.Dir(doc), name)
	}

	return filepath.Join(outDir, filepath.Dir(doc), name)
}

// Locate returns the generated file of the unit on line of doc, or an error
// wrapping fs.ErrNotExist when it has not been generated.
func Locate(outDir, doc string, line int) (string, error) {
	path := OutputPath(outDir, doc, line)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("no generated file for %s:%d: %w", doc, line, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("no generated file for %s:%d: %s is a directory: %w", doc, line, path, os.ErrNotExist)
	}

	return path, nil
}

// Companions returns the generated files of doc found on disk, keyed by the
// line of their unit. outDir is interpreted as in OutputPath.
func Companions(outDir, doc string) (map[int]string, error) {
	probe := OutputPath(outDir, doc, 0)
	dir, base := filepath.Split(probe)

	i := strings.LastIndex(base, companionInfix+"0")
	prefix := base[:i] + companionInfix
	suffix := base[i+len(companionInfix)+1:]

	// A missing output directory, or a file in its place, holds no companions.
	if info, err := os.Stat(filepath.Clean(dir)); err != nil || !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("listing generated files of %s: %w", doc, err)
	}

	found := make(map[int]string)

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) <= len(prefix)+len(suffix) ||
			!strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}

		digits := name[len(prefix) : len(name)-len(suffix)]

		line, err := strconv.Atoi(digits)
		if err != nil || line <= 0 || strconv.Itoa(line) != digits {
			continue
		}

		found[line] = filepath.Join(dir, name)
	}

	return found, nil
}

// IsCompanion reports whether path names a generated file.
func IsCompanion(path string) bool {
	return companionRe.MatchString(filepath.Base(path))
}

// DefaultPackage returns the package a unit of doc is generated into: the
// package clause of a Go document, else the name of its directory.
func DefaultPackage(doc string, src []byte) string {
	if filepath.Ext(doc) == ".go" {
		f, err := parser.ParseFile(token.NewFileSet(), doc, src, parser.PackageClauseOnly)
		if err == nil && f.Name != nil && f.Name.Name != "_" {
			return f.Name.Name
		}
	}

	dir, err := filepath.Abs(filepath.Dir(doc))
	if err != nil {
		dir = filepath.Dir(doc)
	}

	return common.PkgAlias(dir)
}

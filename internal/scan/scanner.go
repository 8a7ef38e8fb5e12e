package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"stagegen/internal/diagnostic"
	"stagegen/internal/gen"
	"stagegen/internal/spec"
)

// Diagnostic codes reported besides the spec.Kind codes.
const (
	CodeUnterminatedBlock = "unterminated_block"
	CodeReadFailed        = "read_failed"
	CodeGenerateFailed    = "generate_failed"
	CodeWriteFailed       = "write_failed"
	CodeDuplicateSymbol   = "duplicate_symbol"

	// Info codes.
	CodeUnchanged = "unchanged"
	CodeRemoved   = "removed"
)

// Config controls a scan.
type Config struct {
	// Include selects documents under a directory root by their slash
	// separated path relative to it. Empty means DefaultInclude.
	Include []string
	// Exclude drops documents Include selected. Nil means DefaultExclude.
	Exclude []string
	// OutDir, when set, receives the generated files instead of the
	// document directories, mirroring each document's path under its root.
	OutDir string
	// Jobs bounds the documents processed at once. Zero or less means
	// GOMAXPROCS.
	Jobs int
	// DryRun generates but writes nothing; Result.Written lists what would
	// have been written.
	DryRun bool
	// Generator configures code generation.
	Generator gen.GeneratorConfig
	// Logger receives progress. Nil discards it.
	Logger *slog.Logger
}

// Default patterns.
var (
	DefaultInclude = []string{"**/*.go"}
	DefaultExclude = []string{"**/vendor/**", "**/testdata/**"}
)

// DefaultConfig returns the default scan configuration.
func DefaultConfig() Config {
	return Config{
		Include: DefaultInclude,
		Exclude: DefaultExclude,
		Jobs:    runtime.GOMAXPROCS(0),
	}
}

// Result summarizes a scan.
type Result struct {
	// Documents is the number of documents read.
	Documents int
	// Units is the number of units found.
	Units int
	// Written lists the generated files in document and line order,
	// including those whose content did not change.
	Written []string
	// Removed lists companions deleted because their line holds no unit
	// any more.
	Removed []string
	// Diagnostics holds one error per failed unit or document, the
	// warnings of valid units and an info per unchanged or removed file.
	Diagnostics diagnostic.Diagnostics
}

// Scanner processes documents.
type Scanner struct {
	cfg Config
	gen *gen.Generator
	log *slog.Logger
}

// New returns a Scanner for cfg, filling unset fields with defaults.
func New(cfg Config) *Scanner {
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultInclude
	}

	if cfg.Exclude == nil {
		cfg.Exclude = DefaultExclude
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Scanner{cfg: cfg, gen: gen.NewGenerator(cfg.Generator), log: log}
}

// document is one file to scan. rel is its path below the root it was found
// under and places its output inside OutDir.
type document struct {
	path string
	rel  string
}

// documentResult is what processing one document produced.
type documentResult struct {
	units     int
	written   []string
	removed   []string
	generated []generatedUnit
	diags     diagnostic.Diagnostics
}

// generatedUnit records the package-level names a generated unit declares.
type generatedUnit struct {
	document string
	line     int
	dir      string
	pkg      string
	names    []string
}

// Run scans every root, a directory or a single document, and generates the
// units found. Roots default to the current directory. The returned error is
// reserved for failures of the scan itself: a bad pattern, a missing root or
// a canceled ctx. Unit failures are in Result.Diagnostics.
func (s *Scanner) Run(ctx context.Context, roots ...string) (*Result, error) {
	for _, p := range append(append([]string(nil), s.cfg.Include...), s.cfg.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	if len(roots) == 0 {
		roots = []string{"."}
	}

	docs, err := s.collect(roots)
	if err != nil {
		return nil, err
	}

	results := make([]documentResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)

	for i, d := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = s.processDocument(d)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Documents: len(docs)}

	var generated []generatedUnit

	for _, r := range results {
		res.Units += r.units
		res.Written = append(res.Written, r.written...)
		res.Removed = append(res.Removed, r.removed...)
		res.Diagnostics.Merge(r.diags)
		generated = append(generated, r.generated...)
	}

	checkDuplicates(generated, &res.Diagnostics)

	s.log.Info("scan finished",
		"documents", res.Documents,
		"units", res.Units,
		"written", len(res.Written),
		"removed", len(res.Removed),
		"errors", len(res.Diagnostics.Errors),
		"dry_run", s.cfg.DryRun)

	return res, nil
}

// collect lists the documents under roots in walk order, each once.
func (s *Scanner) collect(roots []string) ([]document, error) {
	var docs []document

	seen := make(map[string]bool)

	add := func(path, rel string) {
		key, err := filepath.Abs(path)
		if err != nil {
			key = path
		}

		if seen[key] {
			return
		}

		seen[key] = true
		docs = append(docs, document{path: path, rel: rel})
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scan root: %w", err)
		}

		if !info.IsDir() {
			if !IsCompanion(root) {
				add(root, filepath.Base(root))
			}

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && ignoredDir(d.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			if IsCompanion(path) || !s.selected(filepath.ToSlash(rel)) {
				return nil
			}

			add(path, rel)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	return docs, nil
}

// ignoredDir follows the go tool: directories starting with . or _ hold no
// package sources.
func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func (s *Scanner) selected(rel string) bool {
	if !matchAny(s.cfg.Include, rel) {
		return false
	}

	return !matchAny(s.cfg.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}

// processDocument generates every unit of d and removes the companions of
// units that are gone. It never fails as a whole: each problem becomes a
// diagnostic.
func (s *Scanner) processDocument(d document) documentResult {
	var r documentResult

	log := s.log.With("document", d.path)
	log.Debug("scanning document")

	src, err := os.ReadFile(d.path)
	if err != nil {
		r.diags.AddError(CodeReadFailed, err.Error(), d.path, 0)
		return r
	}

	blocks, err := ScanDocument(d.path, bytes.NewReader(src))
	if err != nil {
		var unterminated *UnterminatedBlockError
		if errors.As(err, &unterminated) {
			log.Error("unterminated unit", "line", unterminated.Line)
			r.diags.AddError(CodeUnterminatedBlock,
				fmt.Sprintf("%s has no closing %s", Token, Terminator), d.path, unterminated.Line)

			return r
		}

		r.diags.AddError(CodeReadFailed, err.Error(), d.path, 0)

		return r
	}

	pkg := DefaultPackage(d.path, src)

	for _, b := range blocks {
		r.units++

		out, err := s.processBlock(b, pkg, d)

		if out.spec != nil {
			for _, w := range out.spec.Lint() {
				log.Debug("unit warning", "line", b.Line, "code", w.Code, "warning", w.String())
				r.diags.AddWarning(w.Code, w.String(), d.path, b.Line)
			}
		}

		if err != nil {
			code, msg := describe(err, b.Line)
			log.Error("unit failed", "line", b.Line, "code", code, "err", msg)
			r.diags.AddError(code, msg, d.path, b.Line)

			continue
		}

		log.Debug("unit generated", "line", b.Line, "output", out.path, "changed", out.changed)
		r.written = append(r.written, out.path)
		r.generated = append(r.generated, generatedUnit{
			document: d.path,
			line:     b.Line,
			dir:      filepath.Dir(out.path),
			pkg:      out.spec.Package,
			names:    declaredNames(out.spec),
		})

		if !out.changed && !s.cfg.DryRun {
			r.diags.AddInfo(CodeUnchanged, out.path+" is up to date", d.path, b.Line)
		}
	}

	removed, err := s.prune(d, blocks)
	if err != nil {
		log.Error("removing stale output", "err", err)
		r.diags.AddError(CodeWriteFailed, err.Error(), d.path, 0)
	}

	for _, path := range removed {
		log.Debug("stale output removed", "output", path)
		r.diags.AddInfo(CodeRemoved, "removed "+path, d.path, 0)
	}

	r.removed = removed

	return r
}

// writeError marks a failure to write generated output.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return e.err.Error() }

func (e *writeError) Unwrap() error { return e.err }

// unitOutput is what processing one block produced. spec is set once the
// block parsed, even when a later step failed.
type unitOutput struct {
	spec    *spec.Spec
	path    string
	changed bool
}

func (s *Scanner) processBlock(b Block, pkg string, d document) (unitOutput, error) {
	var out unitOutput

	sp, err := spec.Parse(b.Text, spec.WithFormat(b.Format), spec.WithDefaultPackage(pkg))
	if err != nil {
		return out, err
	}

	out.spec = sp

	file, err := s.gen.Generate(sp)
	if err != nil {
		return out, err
	}

	outDir, doc := s.target(d)
	out.path = OutputPath(outDir, doc, b.Line)

	if s.cfg.DryRun {
		return out, nil
	}

	out.changed, err = gen.WriteFile(out.path, file.Content)
	if err != nil {
		return out, &writeError{err: err}
	}

	return out, nil
}

// target returns the output directory and document path OutputPath needs
// for d.
func (s *Scanner) target(d document) (string, string) {
	if s.cfg.OutDir != "" {
		return s.cfg.OutDir, d.rel
	}

	return "", d.path
}

// prune removes the companions of d whose line holds no unit any more. A
// unit that failed keeps its old companion. In a dry run nothing is removed
// but the files are still reported.
func (s *Scanner) prune(d document, blocks []Block) ([]string, error) {
	outDir, doc := s.target(d)

	existing, err := Companions(outDir, doc)
	if err != nil {
		return nil, err
	}

	live := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		live[b.Line] = true
	}

	lines := make([]int, 0, len(existing))

	for line := range existing {
		if !live[line] {
			lines = append(lines, line)
		}
	}

	slices.Sort(lines)

	var removed []string

	for _, line := range lines {
		path := existing[line]

		if !s.cfg.DryRun {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("removing stale %s: %w", path, err)
			}
		}

		removed = append(removed, path)
	}

	return removed, nil
}

func declaredNames(sp *spec.Spec) []string {
	decls := sp.Declarations()

	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}

	return names
}

// checkDuplicates reports a unit declaring a name that an earlier unit of the
// same package and directory already declares.
func checkDuplicates(units []generatedUnit, diags *diagnostic.Diagnostics) {
	type pkgKey struct {
		dir string
		pkg string
	}

	seen := make(map[pkgKey]map[string]generatedUnit)

	for _, u := range units {
		key := pkgKey{dir: u.dir, pkg: u.pkg}

		owners := seen[key]
		if owners == nil {
			owners = make(map[string]generatedUnit)
			seen[key] = owners
		}

		for _, name := range u.names {
			if prev, ok := owners[name]; ok {
				diags.AddError(CodeDuplicateSymbol,
					fmt.Sprintf("%s is already declared by the unit at %s:%d", name, prev.document, prev.line),
					u.document, u.line)

				break
			}
		}

		for _, name := range u.names {
			if _, ok := owners[name]; !ok {
				owners[name] = u
			}
		}
	}
}

// describe turns a unit error into a diagnostic code and message. Syntax
// error positions are moved from the unit text to the document.
func describe(err error, blockLine int) (string, string) {
	var serr *spec.Error
	if errors.As(err, &serr) {
		shifted := *serr
		if shifted.Line > 0 {
			shifted.Line += blockLine
		}

		return serr.Kind.Code(), shifted.Error()
	}

	var werr *writeError
	if errors.As(err, &werr) {
		return CodeWriteFailed, err.Error()
	}

	return CodeGenerateFailed, err.Error()
}

// Package main provides the CLI entrypoint for stagegen.
//
// stagegen generates staged self-referential structs: a struct whose later
// fields may point into earlier ones, built one field at a time inside a
// single allocation.
//
// Commands:
//
//	gen     generate the code of one spec document
//	check   parse and validate spec documents
//	scan    generate every unit embedded in Go sources (for go:generate)
//	locate  print the generated file of the unit on a document line
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"stagegen/internal/gen"
	"stagegen/internal/scan"
	"stagegen/internal/spec"
)

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: stagegen <command> [flags] [args]

commands:
  gen [-o file] [-package name] [-debug-dir dir] spec.toml|spec.yaml
  check spec...
  scan [-out dir] [-include glob] [-exclude glob] [-j n] [-n] [-v] [root...]
  locate [-out dir] document line
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	switch args[0] {
	case "gen":
		return runGen(args[1:], stdout, stderr)
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "scan":
		return runScan(ctx, args[1:], stdout, stderr)
	case "locate":
		return runLocate(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "stagegen: unknown command %q\n%s", args[0], usage)
		return exitUsage
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("stagegen "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}

// parseFlags parses args and maps a flag error to an exit code.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}

		return exitUsage, false
	}

	return exitOK, true
}

func runGen(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("gen", stderr)
	out := fs.String("o", "", "output file (default stdout)")
	pkg := fs.String("package", "", "package of the generated code when the document sets none")
	debugDir := fs.String("debug-dir", "", "directory for unformatted output when formatting fails")

	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "stagegen gen: expected exactly one spec document")
		return exitUsage
	}

	var opts []spec.Option
	if *pkg != "" {
		opts = append(opts, spec.WithDefaultPackage(*pkg))
	}

	s, err := spec.LoadFile(fs.Arg(0), opts...)
	if err != nil {
		fmt.Fprintf(stderr, "stagegen gen: %v\n", err)
		return exitFail
	}

	printWarnings(stderr, "stagegen gen: "+fs.Arg(0), s.Lint())

	file, err := gen.NewGenerator(gen.GeneratorConfig{DebugDir: *debugDir}).Generate(s)
	if err != nil {
		fmt.Fprintf(stderr, "stagegen gen: %v\n", err)
		return exitFail
	}

	if *out == "" {
		if _, err := stdout.Write(file.Content); err != nil {
			fmt.Fprintf(stderr, "stagegen gen: %v\n", err)
			return exitFail
		}

		return exitOK
	}

	if _, err := gen.WriteFile(*out, file.Content); err != nil {
		fmt.Fprintf(stderr, "stagegen gen: %v\n", err)
		return exitFail
	}

	return exitOK
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", stderr)

	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "stagegen check: expected at least one spec document")
		return exitUsage
	}

	code := exitOK

	for _, path := range fs.Args() {
		s, err := spec.LoadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)

			code = exitFail

			continue
		}

		fmt.Fprintf(stdout, "%s: ok (%s, %d fields)\n", path, s.Name, len(s.Fields))
		printWarnings(stderr, path, s.Lint())
	}

	return code
}

func printWarnings(w io.Writer, prefix string, warnings []spec.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s: warning: [%s] %s\n", prefix, warn.Code, warn)
	}
}

// patterns collects a repeatable glob flag.
type patterns []string

func (p *patterns) String() string { return strings.Join(*p, ",") }

func (p *patterns) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func runScan(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := scan.DefaultConfig()

	var include, exclude patterns

	fs := newFlagSet("scan", stderr)
	fs.StringVar(&cfg.OutDir, "out", "", "write generated files under this directory instead of next to their documents")
	fs.Var(&include, "include", "glob of documents to scan (repeatable, default **/*.go)")
	fs.Var(&exclude, "exclude", "glob of documents to skip (repeatable, default **/vendor/** and **/testdata/**)")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "documents processed in parallel")
	fs.BoolVar(&cfg.DryRun, "n", false, "report the files that would be written without writing them")
	verbose := fs.Bool("v", false, "log every document and unit")

	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if len(include) > 0 {
		cfg.Include = include
	}

	if len(exclude) > 0 {
		cfg.Exclude = exclude
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := scan.New(cfg).Run(ctx, fs.Args()...)
	if err != nil {
		fmt.Fprintf(stderr, "stagegen scan: %v\n", err)
		return exitFail
	}

	for _, path := range res.Written {
		fmt.Fprintln(stdout, path)
	}

	for _, d := range res.Diagnostics.Warnings {
		fmt.Fprintln(stderr, "warning: "+d.String())
	}

	for _, d := range res.Diagnostics.Infos {
		if *verbose || d.Code == scan.CodeRemoved {
			fmt.Fprintln(stderr, d.String())
		}
	}

	for _, d := range res.Diagnostics.Errors {
		fmt.Fprintln(stderr, d.String())
	}

	if res.Diagnostics.HasErrors() {
		return exitFail
	}

	return exitOK
}

func runLocate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("locate", stderr)
	outDir := fs.String("out", "", "directory the scan wrote to, if not next to the documents")

	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "stagegen locate: expected a document and a line")
		return exitUsage
	}

	line, err := strconv.Atoi(fs.Arg(1))
	if err != nil || line < 1 {
		fmt.Fprintf(stderr, "stagegen locate: bad line %q\n", fs.Arg(1))
		return exitUsage
	}

	path, err := scan.Locate(*outDir, fs.Arg(0), line)
	if err != nil {
		fmt.Fprintf(stderr, "stagegen locate: %v\n", err)
		return exitFail
	}

	fmt.Fprintln(stdout, path)

	return exitOK
}

package gen_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"stagegen/internal/scan"
)

// exampleDir returns the absolute path of examples/<name>.
func exampleDir(t *testing.T, name string) string {
	t.Helper()

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err, "repo root")

	return filepath.Join(repoRoot, "examples", name)
}

// regenerate scans an example into a fresh directory and returns the
// generated files keyed by their path relative to it.
func regenerate(t *testing.T, dir string) map[string][]byte {
	t.Helper()

	out := t.TempDir()

	res, err := scan.New(scan.Config{OutDir: out}).Run(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, res.Diagnostics.Error())
	require.NotEmpty(t, res.Written, "no units in %s", dir)

	files := make(map[string][]byte, len(res.Written))

	for _, p := range res.Written {
		b, err := os.ReadFile(p)
		require.NoError(t, err)

		rel, err := filepath.Rel(out, p)
		require.NoError(t, err)

		files[filepath.ToSlash(rel)] = b
	}

	return files
}

// diff returns a unified diff of want and got, or "" when they hold the same
// tokens. Layout is go/format's business and is not compared.
func diff(name string, got, want []byte) string {
	if slices.Equal(strings.Fields(string(got)), strings.Fields(string(want))) {
		return ""
	}

	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(string(got)),
		FromFile: name + " (checked in)",
		ToFile:   name + " (generated)",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	return strings.TrimSpace(d)
}

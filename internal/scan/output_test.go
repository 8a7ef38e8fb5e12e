package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		outDir string
		doc    string
		line   int
		want   string
	}{
		{"", "foofinder.go", 9, "foofinder_stagegen_9.go"},
		{"", filepath.Join("a", "b", "x.go"), 12, filepath.Join("a", "b", "x_stagegen_12.go")},
		{"", filepath.Join("a", "x_test.go"), 3, filepath.Join("a", "x_stagegen_3_test.go")},
		{"", "notes.toml", 1, "notes_stagegen_1.go"},
		{"gen", filepath.Join("a", "x.go"), 4, filepath.Join("gen", "a", "x_stagegen_4.go")},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := OutputPath(tt.outDir, tt.doc, tt.line)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsCompanion(got))
		})
	}
}

func TestIsCompanion(t *testing.T) {
	assert.True(t, IsCompanion("x_stagegen_1.go"))
	assert.True(t, IsCompanion(filepath.Join("dir", "x_stagegen_10_test.go")))
	assert.False(t, IsCompanion("x.go"))
	assert.False(t, IsCompanion("x_stagegen_.go"))
	assert.False(t, IsCompanion("x_stagegen_1.go.txt"))
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "x.go")

	_, err := Locate("", doc, 3)
	require.ErrorIs(t, err, os.ErrNotExist)

	want := filepath.Join(dir, "x_stagegen_3.go")
	require.NoError(t, os.WriteFile(want, []byte("package x\n"), 0o644))

	got, err := Locate("", doc, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x_stagegen_4.go"), 0o755))

	_, err = Locate("", doc, 4)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultPackage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "My-Pkg")

	assert.Equal(t, "demo", DefaultPackage(filepath.Join(dir, "a.go"), []byte("// doc\npackage demo\n")))
	assert.Equal(t, "demo_test", DefaultPackage(filepath.Join(dir, "a_test.go"), []byte("package demo_test\n")))
	assert.Equal(t, "mypkg", DefaultPackage(filepath.Join(dir, "a.go"), []byte("not go")))
	assert.Equal(t, "mypkg", DefaultPackage(filepath.Join(dir, "a.toml"), []byte("package demo\n")))
}

func TestCompanions(t *testing.T) {
	dir := t.TempDir()

	got, err := Companions("", filepath.Join(dir, "missing", "a.go"))
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, name := range []string{
		"a_stagegen_3.go",
		"a_stagegen_12.go",
		"a_stagegen_4_test.go",
		"a_stagegen_05.go",
		"a_stagegen_x.go",
		"ab_stagegen_3.go",
		"a.go",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err = Companions("", filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{
		3:  filepath.Join(dir, "a_stagegen_3.go"),
		12: filepath.Join(dir, "a_stagegen_12.go"),
	}, got)

	got, err = Companions("", filepath.Join(dir, "a_test.go"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{4: filepath.Join(dir, "a_stagegen_4_test.go")}, got)

	got, err = Companions(dir, "a.go")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

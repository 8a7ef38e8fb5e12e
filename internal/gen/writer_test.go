package gen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "a_stagegen_3.go")

	changed, err := WriteFile(path, []byte("package a\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(got))
}

func TestWriteFile_UnchangedContentKeepsModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_stages.go")
	content := []byte("package x\n")

	changed, err := WriteFile(path, content)
	require.NoError(t, err)
	assert.True(t, changed)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	changed, err = WriteFile(path, content)
	require.NoError(t, err)
	assert.False(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))

	changed, err = WriteFile(path, []byte("package y\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.ModTime().Equal(old))
}

func TestWriteDebugUnformatted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteDebugUnformatted("", "x_stages.go", []byte("x")))
	require.NoError(t, WriteDebugUnformatted(dir, "x_stages.go", []byte("package x\nfunc {")))

	got, err := os.ReadFile(filepath.Join(dir, "x_stages.unformatted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "package x\nfunc {", string(got))
}

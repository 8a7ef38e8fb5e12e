package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteDebugUnformatted writes source that go/format rejected to a sidecar
// file in outDir. The sidecar does not end in .go so the broken code never
// joins the package it was meant for. Best-effort: an empty outDir or
// filename writes nothing.
func WriteDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.txt"

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}

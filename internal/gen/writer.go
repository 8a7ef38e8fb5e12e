package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFile writes one generated file, creating its directory if needed.
// An existing file with identical content is left untouched so its
// modification time does not change; changed reports whether the file was
// written.
func WriteFile(path string, content []byte) (changed bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}

	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		return false, nil
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return false, fmt.Errorf("writing file %s: %w", path, err)
	}

	return true, nil
}

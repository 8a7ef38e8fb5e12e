package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"

	"stagegen/internal/spec"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// DebugDir, when set, receives the unformatted source of a unit that
	// go/format rejects. Empty disables the sidecar.
	DebugDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{}
}

// Generator generates Go code from struct specifications.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "foofinder_stages.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// emitter writes one component of a generated unit.
type emitter func(io.Writer, *unitData) error

// emitters run in output order: the package scope with its imports and
// brand, the layout, the views, the stages, then the finished struct.
var emitters = []struct {
	name string
	emit emitter
}{
	{"header", emitHeader},
	{"layout", emitLayout},
	{"views", emitViews},
	{"stages", emitStages},
	{"outer", emitOuter},
}

// Generate generates the Go source for one spec. It only fails with the
// *spec.Error that s.Validate reports; a valid spec always generates.
func (g *Generator) Generate(s *spec.Spec) (*GeneratedFile, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	u, err := buildUnit(s)
	if err != nil {
		return nil, err
	}

	filename := strings.ToLower(s.Name) + "_stages.go"

	var buf bytes.Buffer

	for _, e := range emitters {
		if err := e.emit(&buf, u); err != nil {
			return nil, fmt.Errorf("executing %s template: %w", e.name, err)
		}
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugDir != "" {
			_ = WriteDebugUnformatted(g.config.DebugDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

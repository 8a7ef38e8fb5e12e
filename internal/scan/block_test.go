package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagegen/internal/spec"
)

func TestScanDocument(t *testing.T) {
	doc := strings.Join([]string{
		"package demo",
		"",
		"/* " + Token,
		`name = "A"`,
		`fields = [["x", "int"]]`,
		"*/",
		"",
		"// mentions " + Token + " in passing",
		"",
		"/* " + Token + " yaml",
		"name: B",
		"fields: [[y, string]]",
		"*/",
	}, "\n")

	blocks, err := ScanDocument("demo.go", strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, Block{
		Document: "demo.go",
		Line:     3,
		Text:     []byte("name = \"A\"\nfields = [[\"x\", \"int\"]]\n"),
		Format:   spec.FormatTOML,
	}, blocks[0])

	assert.Equal(t, 10, blocks[1].Line)
	assert.Equal(t, spec.FormatYAML, blocks[1].Format)
	assert.Equal(t, "name: B\nfields: [[y, string]]\n", string(blocks[1].Text))
}

func TestScanDocument_Empty(t *testing.T) {
	blocks, err := ScanDocument("empty.go", strings.NewReader("package empty\n"))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestScanDocument_EmptyUnit(t *testing.T) {
	blocks, err := ScanDocument("x.go", strings.NewReader("/* "+Token+"\n*/\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Empty(t, blocks[0].Text)
}

func TestScanDocument_Unterminated(t *testing.T) {
	doc := strings.Join([]string{
		"/* " + Token,
		`name = "A"`,
		`fields = [["x", "int"]]`,
		"*/",
		"/* " + Token,
		`name = "B"`,
	}, "\n")

	blocks, err := ScanDocument("x.go", strings.NewReader(doc))
	assert.Nil(t, blocks)

	var unterminated *UnterminatedBlockError
	require.ErrorAs(t, err, &unterminated)
	assert.Equal(t, "x.go", unterminated.Document)
	assert.Equal(t, 5, unterminated.Line)
	assert.Contains(t, err.Error(), "x.go:5")
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, spec.FormatTOML, formatOf(""))
	assert.Equal(t, spec.FormatTOML, formatOf(" toml"))
	assert.Equal(t, spec.FormatYAML, formatOf(" yaml"))
	assert.Equal(t, spec.FormatYAML, formatOf(" YAML */"))
}

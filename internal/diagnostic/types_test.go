package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddInfo("written", "wrote foo_stagegen_3.go", "foo.go", 3)
	d.AddWarning("empty_document", "no blocks found", "bar.go", 0)
	assert.False(t, d.HasErrors())

	d.AddError("invalid_fields", "fields: missing or not a list", "foo.go", 12)

	var other Diagnostics
	other.AddError("unterminated_block", "no terminator before end of document", "baz.go", 7)
	d.Merge(other)

	require.Len(t, d.Errors, 2)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.True(t, d.HasErrors())

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		"foo.go:12: [invalid_fields] fields: missing or not a list\n"+
			"baz.go:7: [unterminated_block] no terminator before end of document",
		err.Error())
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "bar.go: [empty_document] no blocks",
		Diagnostic{Code: "empty_document", Message: "no blocks", Document: "bar.go"}.String())
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}

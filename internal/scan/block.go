package scan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"stagegen/internal/spec"
)

// Token marks the first line of a unit. It is assembled from two parts so
// that this file does not contain it.
const Token = "stagegen:" + "struct"

// Terminator marks the line after the last line of a unit.
const Terminator = "*/"

// maxLineSize bounds a single line of a scanned document.
const maxLineSize = 1 << 20

// Block is one unit found in a document.
type Block struct {
	// Document is the name the document was scanned under.
	Document string
	// Line is the 1-based line carrying the token.
	Line int
	// Text is the spec document between the token and the terminator.
	Text []byte
	// Format is the syntax of Text.
	Format spec.Format
}

// UnterminatedBlockError reports a token with no terminator after it.
type UnterminatedBlockError struct {
	Document string
	Line     int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s:%d: %s block is never closed with %s", e.Document, e.Line, Token, Terminator)
}

// ScanDocument returns the units of the document read from r in the order
// they appear. A document with an unterminated unit yields no blocks at all.
func ScanDocument(name string, r io.Reader) ([]Block, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var (
		blocks []Block
		open   *Block
		text   bytes.Buffer
	)

	for line := 1; sc.Scan(); line++ {
		l := sc.Text()

		if open == nil {
			if i := strings.Index(l, Token); i >= 0 && !isLineComment(l) {
				open = &Block{Document: name, Line: line, Format: formatOf(l[i+len(Token):])}
				text.Reset()
			}

			continue
		}

		if strings.Contains(l, Terminator) {
			open.Text = bytes.Clone(text.Bytes())
			blocks = append(blocks, *open)
			open = nil

			continue
		}

		text.WriteString(l)
		text.WriteByte('\n')
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if open != nil {
		return nil, &UnterminatedBlockError{Document: name, Line: open.Line}
	}

	return blocks, nil
}

// isLineComment reports whether l is a // comment. Tokens in line comments
// are documentation, not units.
func isLineComment(l string) bool {
	return strings.HasPrefix(strings.TrimSpace(l), "//")
}

// formatOf reads the rest of the token line.
func formatOf(rest string) spec.Format {
	for _, word := range strings.Fields(rest) {
		if strings.EqualFold(word, "yaml") {
			return spec.FormatYAML
		}
	}

	return spec.FormatTOML
}

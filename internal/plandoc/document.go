// Package plandoc reads and edits planner documents.
//
// The planner file is TOML-shaped, but edits never go through a TOML parser.
// Blocks, quoted assignments and array boundaries are recognised by exact line
// patterns, so every line the editor does not touch survives byte-for-byte.
package plandoc

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Line is one document line with its terminator split off.
type Line struct {
	Text string
	EOL  string // "\n", "\r\n", or "" for an unterminated final line
}

// Document is an ordered, terminator-preserving sequence of lines.
type Document struct {
	lines []Line
}

// Parse splits data into lines. Bytes() on the result reproduces data exactly.
func Parse(data []byte) *Document {
	doc := &Document{}
	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			doc.lines = append(doc.lines, Line{Text: string(data)})
			break
		}
		text := data[:idx]
		eol := "\n"
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
			eol = "\r\n"
		}
		doc.lines = append(doc.lines, Line{Text: string(text), EOL: eol})
		data = data[idx+1:]
	}
	return doc
}

// ParseString is Parse for string input.
func ParseString(s string) *Document {
	return Parse([]byte(s))
}

// Load reads and parses the document at path. The returned error wraps the
// underlying os error, so errors.Is(err, os.ErrNotExist) works.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data), nil
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range d.lines {
		buf.WriteString(l.Text)
		buf.WriteString(l.EOL)
	}
	return buf.Bytes()
}

// String renders the document as a string.
func (d *Document) String() string {
	return string(d.Bytes())
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Texts returns the line contents without terminators.
func (d *Document) Texts() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.Text
	}
	return out
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	lines := make([]Line, len(d.lines))
	copy(lines, d.lines)
	return &Document{lines: lines}
}

// newline is the terminator used for lines the editor creates.
func (d *Document) newline() string {
	for _, l := range d.lines {
		if l.EOL != "" {
			return l.EOL
		}
	}
	return "\n"
}

// splice replaces lines [start, end) with repl.
func (d *Document) splice(start, end int, repl []Line) {
	out := make([]Line, 0, len(d.lines)-(end-start)+len(repl))
	out = append(out, d.lines[:start]...)
	out = append(out, repl...)
	out = append(out, d.lines[end:]...)
	d.lines = out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

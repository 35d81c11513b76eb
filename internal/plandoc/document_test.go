package plandoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBytesRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"a",
		"a\nb",
		"a\nb\n",
		"a\r\nb\r\n",
		"mixed\r\nendings\nlast",
		"\n\n\n",
		samplePlanner,
	}
	for _, in := range inputs {
		if got := ParseString(in).String(); got != in {
			t.Errorf("round trip of %q produced %q", in, got)
		}
	}
}

func TestParseLines(t *testing.T) {
	doc := ParseString("a\r\nb\nc")
	if doc.Len() != 3 {
		t.Fatalf("expected 3 lines, got %d", doc.Len())
	}
	texts := doc.Texts()
	if strings.Join(texts, "|") != "a|b|c" {
		t.Fatalf("unexpected texts: %q", texts)
	}
	if doc.newline() != "\r\n" {
		t.Fatalf("expected CRLF as dominant newline, got %q", doc.newline())
	}
}

func TestClone(t *testing.T) {
	doc := ParseString(samplePlanner)
	clone := doc.Clone()
	if err := clone.ReplaceBlockDescription("LBA Deep Work", "Changed."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.String() != samplePlanner {
		t.Fatal("editing a clone must not touch the original")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner-data.toml")
	if err := os.WriteFile(path, []byte(samplePlanner), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.String() != samplePlanner {
		t.Fatal("loaded document differs from file")
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

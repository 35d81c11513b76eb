package plandoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const samplePlanner = `title_prefix = "DAILY"

goals = [
  "Ship it",
]

[[blocks]]
title = "LBA Deep Work"
time = "8:00am - 10:00am"
description = "Ship draft."

[[blocks]]
title = "Production"
description = "Edit video."

[[blocks]]
title = "Production"
description = "Second production block."
`

func TestScanBlocks(t *testing.T) {
	t.Run("no markers yields empty list", func(t *testing.T) {
		for _, lines := range [][]string{
			nil,
			{},
			{"title = \"x\"", "description = \"y\""},
			{"[[block]]", "[blocks]", "# [[blocks]]"},
		} {
			if got := ScanBlocks(lines); len(got) != 0 {
				t.Fatalf("expected no blocks for %q, got %v", lines, got)
			}
		}
	})

	t.Run("ranges are contiguous and end at next marker", func(t *testing.T) {
		lines := []string{"top = 1", "  [[blocks]]  ", "title = \"a\"", "[[blocks]]", "title = \"b\"", "x = 1"}
		got := ScanBlocks(lines)
		want := []Range{{Start: 1, End: 3}, {Start: 3, End: 6}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})
}

func TestExtractField(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  string
		found bool
	}{
		{name: "plain", line: `title = "Production"`, want: "Production", found: true},
		{name: "loose whitespace", line: "\t title=   \"A\"   ", want: "A", found: true},
		{name: "escaped quote kept raw", line: `title = "say \"hi\""`, want: `say \"hi\"`, found: true},
		{name: "escaped backslash kept raw", line: `title = "a\\b"`, want: `a\\b`, found: true},
		{name: "empty value", line: `title = ""`, want: "", found: true},
		{name: "trailing comment", line: `title = "A" # note`, found: false},
		{name: "different key", line: `subtitle = "A"`, found: false},
		{name: "unquoted", line: `title = A`, found: false},
		{name: "unescaped inner quote", line: `title = "a"b"`, found: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractField([]string{tt.line}, Range{Start: 0, End: 1}, "title")
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("first match in range wins", func(t *testing.T) {
		lines := []string{`title = "outside"`, `title = "first"`, `title = "second"`}
		got, ok := ExtractField(lines, Range{Start: 1, End: 3}, "title")
		if !ok || got != "first" {
			t.Fatalf("expected first, got %q (ok=%v)", got, ok)
		}
	})
}

func TestBlockDescription(t *testing.T) {
	doc := ParseString(samplePlanner)

	got, err := doc.BlockDescription("LBA Deep Work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ship draft." {
		t.Errorf("expected 'Ship draft.', got %q", got)
	}

	got, err = doc.BlockDescription("Production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Edit video." {
		t.Errorf("duplicate titles: expected first block's description, got %q", got)
	}

	if _, err := doc.BlockDescription("Missing"); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}

	empty := ParseString("goals = [\n]\n")
	if _, err := empty.BlockDescription("Production"); !errors.Is(err, ErrNoBlocks) {
		t.Errorf("expected ErrNoBlocks, got %v", err)
	}
	if errors.Is(ErrNoBlocks, ErrBlockNotFound) {
		t.Error("ErrNoBlocks must stay distinct from ErrBlockNotFound")
	}

	noDesc := ParseString("[[blocks]]\ntitle = \"Research\"\n")
	if _, err := noDesc.BlockDescription("Research"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestFirstTitle(t *testing.T) {
	doc := ParseString(`[[blocks]]
title = "R&D / Research"

[[blocks]]
title = "Research"
description = "Read papers."

[[blocks]]
title = "R&D / Research Block"
description = "Prototype."
`)

	got, ok := doc.FirstTitle([]string{"L&D / Research Block", "R&D / Research", "R&D / Research Block", "Research"})
	if !ok {
		t.Fatal("expected a title match")
	}
	if got != "R&D / Research Block" {
		t.Fatalf("expected candidate order to win, got %q", got)
	}

	if _, ok := doc.FirstTitle([]string{"Nope"}); ok {
		t.Fatal("expected no match")
	}
}

func TestReplaceBlockDescription(t *testing.T) {
	t.Run("replaces first matching block only", func(t *testing.T) {
		doc := ParseString(samplePlanner)
		if err := doc.ReplaceBlockDescription("Production", "Cut trailer."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := doc.String()
		want := ParseString(samplePlanner).String()
		want = strings.Replace(want, `description = "Edit video."`, `description = "Cut trailer."`, 1)
		if out != want {
			t.Fatalf("unexpected document:\n%s", out)
		}
	})

	t.Run("round trip with quotes and backslashes", func(t *testing.T) {
		values := []string{
			`plain`,
			`say "hi"`,
			`C:\path\to\file`,
			`mixed \" both`,
			`trailing backslash \`,
			``,
		}
		for _, value := range values {
			doc := ParseString(samplePlanner)
			if err := doc.ReplaceBlockDescription("LBA Deep Work", value); err != nil {
				t.Fatalf("replace %q: %v", value, err)
			}
			raw, err := doc.BlockDescription("LBA Deep Work")
			if err != nil {
				t.Fatalf("extract after replacing %q: %v", value, err)
			}
			if raw != Escape(value) {
				t.Errorf("expected raw %q, got %q", Escape(value), raw)
			}
			if got := Unescape(raw); got != value {
				t.Errorf("round trip: expected %q, got %q", value, got)
			}
		}
	})

	t.Run("preserves CRLF terminator", func(t *testing.T) {
		doc := ParseString("[[blocks]]\r\ntitle = \"A\"\r\n  description = \"old\"\r\n")
		if err := doc.ReplaceBlockDescription("A", "new."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "[[blocks]]\r\ntitle = \"A\"\r\ndescription = \"new.\"\r\n"
		if got := doc.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("missing block", func(t *testing.T) {
		doc := ParseString(samplePlanner)
		err := doc.ReplaceBlockDescription("Missing", "x")
		if !errors.Is(err, ErrBlockNotFound) {
			t.Fatalf("expected ErrBlockNotFound, got %v", err)
		}
	})

	t.Run("block without description", func(t *testing.T) {
		doc := ParseString("[[blocks]]\ntitle = \"A\"\n[[blocks]]\ntitle = \"B\"\ndescription = \"b\"\n")
		err := doc.ReplaceBlockDescription("A", "x")
		if !errors.Is(err, ErrFieldNotFound) {
			t.Fatalf("expected ErrFieldNotFound, got %v", err)
		}
		if got := doc.String(); got != "[[blocks]]\ntitle = \"A\"\n[[blocks]]\ntitle = \"B\"\ndescription = \"b\"\n" {
			t.Fatalf("document must be untouched, got %q", got)
		}
	})
}

func TestTitles(t *testing.T) {
	doc := ParseString(samplePlanner + "\n[[blocks]]\ntitle = \"Say \\\"hi\\\"\"\n")
	got := doc.Titles()
	want := []string{"LBA Deep Work", "Production", "Production", `Say "hi"`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

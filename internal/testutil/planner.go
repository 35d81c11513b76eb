// Package testutil provides reusable test utilities for setlist tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SamplePlanner is a planner document carrying every default goal block.
const SamplePlanner = `title_prefix = "DAILY"
title_accent = "SETLIST"

goals = [
  "Finish chapter",
]

top_deliverables = [
  "Draft outline",
  "Send invoice",
  "",
]

[[blocks]]
title = "LBA Deep Work"
time = "8:00am - 10:00am"
duration_minutes = 120
description = "Ship draft."
items = ["outline", "write"]

[[blocks]]
title = "RyanBlunden.dev Deep Work"
time = "10:30am - 12:00pm"
description = "Write the \"setlist\" post."

[[blocks]]
title = "Production"
time = "1:00pm - 3:00pm"
description = "Edit video."

[[blocks]]
title = "R&D / Research"
time = "3:30pm - 5:00pm"
description = "Read papers."
`

// TestPlanner is a temporary directory holding a planner document.
type TestPlanner struct {
	Dir     string
	Path    string
	t       *testing.T
	content string
	files   map[string]string
}

// NewTestPlanner creates a planner builder seeded with SamplePlanner.
// Call Build() to write it.
func NewTestPlanner(t *testing.T) *TestPlanner {
	t.Helper()
	return &TestPlanner{
		t:       t,
		content: SamplePlanner,
		files:   make(map[string]string),
	}
}

// WithContent replaces the planner document content.
func (p *TestPlanner) WithContent(content string) *TestPlanner {
	p.content = content
	return p
}

// WithFile adds another file next to the planner document.
func (p *TestPlanner) WithFile(relPath, content string) *TestPlanner {
	p.files[relPath] = content
	return p
}

// Build writes planner-data.toml and any extra files to a temp directory.
func (p *TestPlanner) Build() *TestPlanner {
	p.t.Helper()

	p.Dir = p.t.TempDir()
	p.Path = filepath.Join(p.Dir, "planner-data.toml")
	p.writeFile("planner-data.toml", p.content)
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

func (p *TestPlanner) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Read returns the planner document's current content.
func (p *TestPlanner) Read() string {
	p.t.Helper()
	content, err := os.ReadFile(p.Path)
	if err != nil {
		p.t.Fatalf("failed to read %s: %v", p.Path, err)
	}
	return string(content)
}

// AssertUnchanged fails the test if the document differs from what Build wrote.
func (p *TestPlanner) AssertUnchanged() {
	p.t.Helper()
	if got := p.Read(); got != p.content {
		p.t.Errorf("expected planner to be unchanged, got:\n%s", got)
	}
}

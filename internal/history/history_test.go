package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	for i, desc := range []string{"First.", "Second.", "Third."} {
		_, err := s.Record(ctx, Run{
			RecordedAt:   base.Add(time.Duration(i) * time.Hour),
			File:         "planner-data.toml",
			Branch:       "main",
			Commit:       "abc123",
			Message:      "Update daily goals and top deliverables",
			Pushed:       i != 1,
			Goals:        []Goal{{Title: "LBA Deep Work", Description: desc}},
			Deliverables: []string{"a", "", "c"},
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Goals[0].Description != "Third." || runs[1].Goals[0].Description != "Second." {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if runs[1].Pushed {
		t.Error("expected second run to be recorded as not pushed")
	}
	if !runs[0].RecordedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("unexpected timestamp: %v", runs[0].RecordedAt)
	}
	if len(runs[0].Deliverables) != 3 || runs[0].Deliverables[2] != "c" {
		t.Errorf("unexpected deliverables: %q", runs[0].Deliverables)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 runs, got %d", len(all))
	}
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	run, err := s.Record(context.Background(), Run{File: "p.toml", Message: "m"})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("expected a UUID id, got %q: %v", run.ID, err)
	}
	if !run.RecordedAt.Equal(fixed) {
		t.Errorf("expected injected clock, got %v", run.RecordedAt)
	}

	runs, err := s.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("expected recorded run back, got %+v", runs)
	}
	if runs[0].Goals == nil || runs[0].Deliverables == nil {
		t.Error("expected empty slices, not nil, for missing goals/deliverables")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d returned error: %v", i+1, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close #%d returned error: %v", i+1, err)
		}
	}
}

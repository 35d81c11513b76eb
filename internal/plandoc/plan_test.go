package plandoc

import (
	"strings"
	"testing"
)

func TestDecodePlan(t *testing.T) {
	src := `title_accent = "SHOW"
goals = ["Finish chapter", "Call mum"]
top_deliverables = [
  "Draft",
  "",
  "Slides",
]

[[blocks]]
title = "LBA Deep Work"
time = "8:00am - 10:00am"
duration_minutes = 120
description = "Ship \"draft\"."
items = ["outline", "write"]
`
	plan, err := DecodePlan([]byte(src))
	if err != nil {
		t.Fatalf("DecodePlan returned error: %v", err)
	}
	if plan.TitlePrefix != "DAILY" || plan.TitleAccent != "SHOW" {
		t.Errorf("unexpected title parts: %q %q", plan.TitlePrefix, plan.TitleAccent)
	}
	if len(plan.Deliverables) != 3 || plan.Deliverables[2] != "Slides" {
		t.Errorf("expected legacy deliverables to be used, got %q", plan.Deliverables)
	}
	if plan.TopDeliverables != nil {
		t.Error("expected TopDeliverables to be folded into Deliverables")
	}
	if len(plan.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(plan.Blocks))
	}
	b := plan.Blocks[0]
	if b.Description != `Ship "draft".` || b.DurationMinutes != 120 || len(b.Items) != 2 {
		t.Errorf("unexpected block: %+v", b)
	}

	md := plan.Markdown()
	for _, want := range []string{
		"# DAILY SHOW",
		"## Goals",
		"1. Finish chapter",
		"## Top deliverables",
		"2. _(empty)_",
		"### 8:00am - 10:00am · LBA Deep Work",
		"_120 min_",
		"- outline",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestDecodePlanPrefersCurrentKey(t *testing.T) {
	plan, err := DecodePlan([]byte("deliverables = [\"new\"]\ntop_deliverables = [\"old\"]\n"))
	if err != nil {
		t.Fatalf("DecodePlan returned error: %v", err)
	}
	if len(plan.Deliverables) != 1 || plan.Deliverables[0] != "new" {
		t.Fatalf("expected current key to win, got %q", plan.Deliverables)
	}
}

func TestDecodePlanInvalid(t *testing.T) {
	if _, err := DecodePlan([]byte("goals = [")); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestDurationFromRange(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9:00am-10:30am", 90},
		{"9:00AM - 12:00PM", 180},
		{"11:30pm-12:15am", 45},
		{"12:00pm-1:00pm", 60},
		{"9:00am-9:00am", 0},
		{"09:00-10:00", 0},
		{"13:00pm-2:00pm", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DurationFromRange(tt.in); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDecodePlanDuration(t *testing.T) {
	data := `[[blocks]]
title = "Explicit"
time = "9:00am-10:30am"
duration_minutes = 45

[[blocks]]
title = "From range"
time = "9:00am-10:30am"

[[blocks]]
title = "Legacy key"
durationMinutes = 30

[[blocks]]
title = "Explicit zero"
time = "1:00pm-2:00pm"
duration_minutes = 0

[[blocks]]
title = "Negative"
duration_minutes = -5
`
	plan, err := DecodePlan([]byte(data))
	if err != nil {
		t.Fatalf("DecodePlan returned error: %v", err)
	}
	want := []int{45, 90, 30, 0, 0}
	if len(plan.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(plan.Blocks))
	}
	for i, b := range plan.Blocks {
		if b.DurationMinutes != want[i] {
			t.Errorf("%s: expected %d minutes, got %d", b.Title, want[i], b.DurationMinutes)
		}
	}
	if !strings.Contains(plan.Markdown(), "_90 min_") {
		t.Fatalf("expected derived duration in markdown, got:\n%s", plan.Markdown())
	}
}

package plandoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultTitlePrefix = "DAILY"
	defaultTitleAccent = "SETLIST"
)

// Plan is the read-only view of a planner document, as the setlist page
// renders it.
type Plan struct {
	TitlePrefix     string      `toml:"title_prefix" json:"title_prefix" yaml:"title_prefix"`
	TitleAccent     string      `toml:"title_accent" json:"title_accent" yaml:"title_accent"`
	Goals           []string    `toml:"goals" json:"goals" yaml:"goals"`
	Deliverables    []string    `toml:"deliverables" json:"deliverables" yaml:"deliverables"`
	TopDeliverables []string    `toml:"top_deliverables" json:"-" yaml:"-"`
	Todos           []string    `toml:"todos" json:"todos,omitempty" yaml:"todos,omitempty"`
	Blocks          []PlanBlock `toml:"blocks" json:"blocks" yaml:"blocks"`
}

// PlanBlock is one scheduled block.
type PlanBlock struct {
	Title           string   `toml:"title" json:"title" yaml:"title"`
	Time            string   `toml:"time" json:"time,omitempty" yaml:"time,omitempty"`
	DurationMinutes int      `toml:"-" json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	Description     string   `toml:"description" json:"description" yaml:"description"`
	Items           []string `toml:"items" json:"items,omitempty" yaml:"items,omitempty"`

	Duration       *int `toml:"duration_minutes" json:"-" yaml:"-"`
	LegacyDuration *int `toml:"durationMinutes" json:"-" yaml:"-"`
}

var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(am|pm)$`)

// parseClock converts a 12-hour "9:30am" time to minutes after midnight.
func parseClock(token string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, false
	}
	hour %= 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return hour*60 + minute, true
}

// DurationFromRange returns the length in minutes of a "9:00am-10:30am"
// range, wrapping past midnight. Unparseable ranges give 0.
func DurationFromRange(timeRange string) int {
	startRaw, endRaw, _ := strings.Cut(timeRange, "-")
	start, ok := parseClock(startRaw)
	if !ok {
		return 0
	}
	end, ok := parseClock(endRaw)
	if !ok {
		return 0
	}
	if end < start {
		end += 24 * 60
	}
	return end - start
}

func (b *PlanBlock) resolveDuration() {
	switch {
	case b.Duration != nil:
		b.DurationMinutes = *b.Duration
	case b.LegacyDuration != nil:
		b.DurationMinutes = *b.LegacyDuration
	default:
		b.DurationMinutes = DurationFromRange(b.Time)
	}
	if b.DurationMinutes < 0 {
		b.DurationMinutes = 0
	}
	b.Duration, b.LegacyDuration = nil, nil
}

// DecodePlan parses data as TOML. The result is for display only; edits
// always go through Document.
func DecodePlan(data []byte) (*Plan, error) {
	var p Plan
	if _, err := toml.Decode(string(data), &p); err != nil {
		return nil, fmt.Errorf("failed to parse planner document: %w", err)
	}
	if p.Deliverables == nil {
		p.Deliverables = p.TopDeliverables
	}
	p.TopDeliverables = nil
	for i := range p.Blocks {
		p.Blocks[i].resolveDuration()
	}
	if p.TitlePrefix == "" {
		p.TitlePrefix = defaultTitlePrefix
	}
	if p.TitleAccent == "" {
		p.TitleAccent = defaultTitleAccent
	}
	return &p, nil
}

// Markdown renders the plan as a markdown summary.
func (p *Plan) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", p.TitlePrefix, p.TitleAccent)

	writeList(&b, "Goals", p.Goals)
	writeList(&b, "Top deliverables", p.Deliverables)
	writeList(&b, "Todos", p.Todos)

	if len(p.Blocks) > 0 {
		b.WriteString("## Blocks\n\n")
		for _, block := range p.Blocks {
			heading := block.Title
			if block.Time != "" {
				heading = block.Time + " · " + heading
			}
			fmt.Fprintf(&b, "### %s\n\n", heading)
			if block.DurationMinutes > 0 {
				fmt.Fprintf(&b, "_%d min_\n\n", block.DurationMinutes)
			}
			if block.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", block.Description)
			}
			for _, item := range block.Items {
				fmt.Fprintf(&b, "- %s\n", item)
			}
			if len(block.Items) > 0 {
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			item = "_(empty)_"
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

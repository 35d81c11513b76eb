package plandoc

import (
	"errors"
	"fmt"
)

const (
	// DeliverablesKey is the key the editor writes.
	DeliverablesKey = "deliverables"
	// LegacyDeliverablesKey is still read and migrated on write.
	LegacyDeliverablesKey = "top_deliverables"
	// DeliverableCount is the fixed number of deliverable entries.
	DeliverableCount = 3
)

// ErrMalformedArray indicates an array opening line with no closing bracket.
var ErrMalformedArray = errors.New("malformed array")

// ReadDeliverables returns the raw deliverable entries, padded or truncated to
// DeliverableCount. A missing or unterminated array reads as empty entries.
func (d *Document) ReadDeliverables() []string {
	lines := d.Texts()
	start, end := findArray(lines, deliverablesOpenRe)
	if start < 0 || end < 0 {
		return FitDeliverables(nil)
	}

	var values []string
	for i := start + 1; i < end; i++ {
		if m := arrayEntryRe.FindStringSubmatch(lines[i]); m != nil {
			values = append(values, m[1])
		}
	}
	return FitDeliverables(values)
}

// FitDeliverables pads with empty strings or truncates to DeliverableCount.
func FitDeliverables(values []string) []string {
	out := make([]string, DeliverableCount)
	copy(out, values)
	return out
}

// WriteDeliverables escapes values and writes them as the deliverables array.
func (d *Document) WriteDeliverables(values []string) error {
	fitted := FitDeliverables(values)
	escaped := make([]string, len(fitted))
	for i, v := range fitted {
		escaped[i] = Escape(v)
	}
	return d.WriteDeliverablesRaw(escaped)
}

// WriteDeliverablesRaw writes already-escaped entries as the deliverables
// array under DeliverablesKey.
//
// An existing array under either key is replaced in place, boundary lines
// included. Otherwise the array is inserted after the top-level goals array
// (past any blank lines that follow it), or at the very top of the document
// when there is no goals array.
func (d *Document) WriteDeliverablesRaw(raw []string) error {
	nl := d.newline()
	block := renderDeliverables(FitDeliverables(raw), nl)
	lines := d.Texts()

	start, end := findArray(lines, deliverablesOpenRe)
	if start >= 0 {
		if end < 0 {
			return fmt.Errorf("%w: deliverables array opened on line %d is never closed", ErrMalformedArray, start+1)
		}
		block[len(block)-1].EOL = d.lines[end].EOL
		d.splice(start, end+1, block)
		return nil
	}

	goalsStart, goalsEnd := findArray(lines, goalsOpenRe)
	if goalsStart < 0 || goalsEnd < 0 {
		d.splice(0, 0, append(block, Line{EOL: nl}))
		return nil
	}

	at := goalsEnd + 1
	for at < len(lines) && isBlank(lines[at]) {
		at++
	}
	if d.lines[at-1].EOL == "" {
		d.lines[at-1].EOL = nl
	}
	d.splice(at, at, append([]Line{{EOL: nl}}, block...))
	return nil
}

func renderDeliverables(raw []string, nl string) []Line {
	out := make([]Line, 0, len(raw)+2)
	out = append(out, Line{Text: DeliverablesKey + " = [", EOL: nl})
	for _, v := range raw {
		out = append(out, Line{Text: `  "` + v + `",`, EOL: nl})
	}
	out = append(out, Line{Text: arrayClose, EOL: nl})
	return out
}

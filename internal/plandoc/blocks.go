package plandoc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBlocks indicates the document contains no block markers at all.
	ErrNoBlocks = errors.New("document has no [[blocks]] entries")
	// ErrBlockNotFound indicates no block carries the requested title.
	ErrBlockNotFound = errors.New("block not found")
	// ErrFieldNotFound indicates the block exists but lacks the field.
	ErrFieldNotFound = errors.New("field not found")
)

// Range is a half-open line range [Start, End).
type Range struct {
	Start int
	End   int
}

// ScanBlocks returns one range per block marker, in document order. A block
// ends where the next marker starts, or at the end of the document.
func ScanBlocks(lines []string) []Range {
	var starts []int
	for i, line := range lines {
		if isBlockMarker(line) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil
	}

	ranges := make([]Range, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// ExtractField returns the raw quoted value of the first `key = "..."` line in
// r. Escapes are not decoded.
func ExtractField(lines []string, r Range, key string) (string, bool) {
	re := fieldPattern(key)
	for i := r.Start; i < r.End && i < len(lines); i++ {
		if m := re.FindStringSubmatch(lines[i]); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Titles returns the decoded title of every block that has one, in document
// order. Duplicates are kept.
func (d *Document) Titles() []string {
	lines := d.Texts()
	var titles []string
	for _, r := range ScanBlocks(lines) {
		if raw, ok := ExtractField(lines, r, "title"); ok {
			titles = append(titles, Unescape(raw))
		}
	}
	return titles
}

// findBlock returns the first block whose title equals title.
func (d *Document) findBlock(lines []string, title string) (Range, error) {
	ranges := ScanBlocks(lines)
	if len(ranges) == 0 {
		return Range{}, ErrNoBlocks
	}
	want := Escape(title)
	for _, r := range ranges {
		if raw, ok := ExtractField(lines, r, "title"); ok && raw == want {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("%w: %q", ErrBlockNotFound, title)
}

// BlockDescription returns the raw description of the first block titled
// title.
func (d *Document) BlockDescription(title string) (string, error) {
	lines := d.Texts()
	r, err := d.findBlock(lines, title)
	if err != nil {
		return "", err
	}
	raw, ok := ExtractField(lines, r, "description")
	if !ok {
		return "", fmt.Errorf("%w: description in block %q", ErrFieldNotFound, title)
	}
	return raw, nil
}

// FirstTitle returns the first candidate whose block exists and has a
// description.
func (d *Document) FirstTitle(candidates []string) (string, bool) {
	for _, title := range candidates {
		if _, err := d.BlockDescription(title); err == nil {
			return title, true
		}
	}
	return "", false
}

// ReplaceBlockDescription escapes value and writes it as the description of
// the first block titled title.
func (d *Document) ReplaceBlockDescription(title, value string) error {
	return d.ReplaceBlockDescriptionRaw(title, Escape(value))
}

// ReplaceBlockDescriptionRaw writes raw, which must already be escaped, as the
// description of the first block titled title. The replaced line keeps its
// terminator.
func (d *Document) ReplaceBlockDescriptionRaw(title, raw string) error {
	lines := d.Texts()
	r, err := d.findBlock(lines, title)
	if err != nil {
		return err
	}
	for i := r.Start; i < r.End; i++ {
		if descriptionLineRe.MatchString(lines[i]) {
			d.lines[i] = Line{
				Text: `description = "` + raw + `"`,
				EOL:  d.lines[i].EOL,
			}
			return nil
		}
	}
	return fmt.Errorf("%w: description in block %q", ErrFieldNotFound, title)
}

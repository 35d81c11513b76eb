package plandoc

import (
	"regexp"
	"strings"
)

// BlockMarker starts a block when it is the whole (trimmed) line.
const BlockMarker = "[[blocks]]"

// arrayClose ends an array when it is the whole (trimmed) line.
const arrayClose = "]"

// quoted matches a double-quoted string body with backslash escapes.
const quoted = `"((?:[^"\\]|\\.)*)"`

var (
	deliverablesOpenRe = regexp.MustCompile(`^\s*(top_deliverables|deliverables)\s*=\s*\[\s*$`)
	goalsOpenRe        = regexp.MustCompile(`^\s*goals\s*=\s*\[\s*$`)
	arrayEntryRe       = regexp.MustCompile(`^\s*` + quoted + `\s*,?\s*$`)

	// Matches any quoted description line, including ones extraction
	// would not capture.
	descriptionLineRe = regexp.MustCompile(`^\s*description\s*=\s*".*"\s*$`)

	fieldPatterns = map[string]*regexp.Regexp{
		"title":       assignmentPattern("title"),
		"description": assignmentPattern("description"),
	}
)

func assignmentPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `\s*=\s*` + quoted + `\s*$`)
}

func fieldPattern(key string) *regexp.Regexp {
	if re, ok := fieldPatterns[key]; ok {
		return re
	}
	return assignmentPattern(key)
}

func isBlockMarker(line string) bool {
	return strings.TrimSpace(line) == BlockMarker
}

func isArrayClose(line string) bool {
	return strings.TrimSpace(line) == arrayClose
}

// findArray locates the first line matching open and the first closing line
// after it. start is -1 when there is no opening line; end is -1 when the
// array is never closed.
func findArray(lines []string, open *regexp.Regexp) (start, end int) {
	for i, line := range lines {
		if !open.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if isArrayClose(lines[j]) {
				return i, j
			}
		}
		return i, -1
	}
	return -1, -1
}

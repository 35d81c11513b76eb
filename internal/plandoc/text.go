package plandoc

import "strings"

// EnsureTrailingPeriod trims s, strips trailing '.', '!' and '?' characters
// and appends a single period. Blank input becomes ".".
func EnsureTrailingPeriod(s string) string {
	normalized := strings.TrimRight(strings.TrimSpace(s), ".!?")
	if normalized == "" {
		return "."
	}
	return normalized + "."
}

// Escape makes s safe to embed between double quotes.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Unescape reverses Escape. Only \\ and \" are decoded; any other backslash
// sequence is left as written.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Resolve computes a prompt's result. Blank input keeps current; otherwise the
// trimmed input is used, passed through EnsureTrailingPeriod when normalize is
// set.
func Resolve(current, input string, normalize bool) string {
	entered := strings.TrimSpace(input)
	if entered == "" {
		return current
	}
	if normalize {
		return EnsureTrailingPeriod(entered)
	}
	return entered
}

package shellquote

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{"it's", `'it'\''s'`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"push", "push"},
		{"--abbrev-ref", "--abbrev-ref"},
		{"#tag", "'#tag'"},
		{"a|b", "'a|b'"},
		{`say "hi"`, `'say "hi"'`},
		{"don't", `'don'\''t'`},
	}
	for _, tt := range tests {
		if got := QuoteIfNeeded(tt.in); got != tt.want {
			t.Errorf("QuoteIfNeeded(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

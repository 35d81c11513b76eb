package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette:
// - Default: primary text
// - Accent (soft purple unless configured): headings, file paths, current values
// - Muted (gray): hints, placeholders, echoed git output
// No colored success/error; status uses unicode symbols only.

const defaultAccent = "#A78BFA"

var accentColor = defaultAccent

var (
	// Accent style for file paths, block titles, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for prompts and emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// ConfigureTheme applies the accent color from config. Values that do not
// parse ("none", "off", garbage) turn the accent off.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		if strings.TrimSpace(accent) == "" {
			accentColor = defaultAccent
			Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
			return
		}
		accentColor = ""
		Accent = lipgloss.NewStyle()
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// AccentColor returns the active accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts ANSI codes 0-255 and #RGB/#RRGGBB hex.
func normalizeAccentColor(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "", "none", "off", "default":
		return "", false
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}

	if !strings.HasPrefix(v, "#") {
		return "", false
	}
	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", false
	}
	return "#" + hex, true
}

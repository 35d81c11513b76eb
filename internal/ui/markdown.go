package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

// RenderMarkdown renders a plan summary for terminal display.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(planMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour pads with blank lines; keep exactly one trailing newline.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// planMarkdownStyle covers the subset of markdown plan summaries use:
// headings, ordered and bullet lists, emphasis and paragraphs.
func planMarkdownStyle() ansi.StyleConfig {
	muted := mdStringPtr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = mdStringPtr(color)
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockPrefix: "\n",
				BlockSuffix: "\n",
			},
			Margin: mdUintPtr(MarkdownRenderMargin),
		},
		Paragraph: ansi.StyleBlock{},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       accent,
				Bold:        mdBoolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix:    "",
				Underline: mdBoolPtr(true),
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "▌ ",
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "  ",
				Bold:   mdBoolPtr(false),
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: mdBoolPtr(true),
			Color:  muted,
		},
		Strong: ansi.StylePrimitive{
			Bold: mdBoolPtr(true),
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n--------\n",
		},
	}
}

func mdBoolPtr(v bool) *bool { return &v }

func mdStringPtr(v string) *string { return &v }

func mdUintPtr(v uint) *uint { return &v }

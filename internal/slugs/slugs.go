// Package slugs derives stable, typeable identifiers for planner blocks.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// BlockSlug converts a block title into a command-line friendly key:
// "RyanBlunden.dev Deep Work" -> "ryanblunden-dev-deep-work",
// "R&D / Research" -> "r-and-d-research".
func BlockSlug(title string) string {
	slugged := goslug.Make(title)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(title), "-"))
	}
	return slugged
}

// Matches reports whether query names the block titled title, either by exact
// title (case-insensitive) or by slug.
func Matches(title, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(title), q) {
		return true
	}
	return BlockSlug(title) == BlockSlug(q)
}

package utils

import (
	"regexp"
	"strings"
)

var (
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// ComputeSlug derives a URL-safe identifier from a title: lowercase, strip
// everything but word characters, whitespace and hyphens, collapse
// whitespace runs to single hyphens, truncate to 100 characters. Callers
// compute slugs once at creation; slugs are never recomputed on edit.
func ComputeSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

package vocab

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\w\s-]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases the input, strips punctuation except hyphens and
// collapses whitespace. It is the single normalization applied to both query
// phrases and vocabulary texts, so the two always meet in the same form.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

package events

import (
	"regexp"
	"strings"
)

// MaxDescription is the longest description kept.
const MaxDescription = 400

var entityRemnant = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)

// Clean strips entity remnants, collapses whitespace and truncates to MaxDescription,
// preferring the last sentence boundary in the second half of the allowance.
func Clean(text string) string {
	text = entityRemnant.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= MaxDescription {
		return text
	}
	cut := string(runes[:MaxDescription])
	if i := strings.LastIndex(cut, ". "); i >= len(cut)/2 {
		return cut[:i+1]
	}
	if strings.HasSuffix(cut, ".") {
		return cut
	}
	return strings.TrimSpace(cut)
}

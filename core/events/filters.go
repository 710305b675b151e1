package events

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	footerPhrases = []string{
		"copyright", "©", "all rights reserved", "privacy policy", "terms of use",
		"contact us", "site map", "advertise", "baseball almanac is", "follow us",
		"web site", "click here",
	}
	tableFragment  = regexp.MustCompile(`(?i)team standings|all-star game\s*\|`)
	yearPipeRecord = regexp.MustCompile(`^\d{4}.*\|`)

	baseballKeywords = []string{
		"baseball", "major league", "yankees", "red sox", "home run", "pitcher",
		"world series", "batting", "strikeout", "rookie", "manager", "stadium",
		"game", "season", "record", "debut", "retire", "no-hitter", "mvp",
		"all-star", "pennant", "championship", "playoff", "inning", "hall of fame",
	}

	offTopicKeywords = []string{
		"election", "congress", "senate", "supreme court", "prime minister",
		"impeach", "watergate", "stock market", "hurricane", "earthquake",
		"olympic", "invasion", "treaty", "assassinat", "moon landing",
	}

	// Historical events the almanac mentions because baseball reacted to them.
	historicalAllowlist = []string{
		"nixon", "september 11", "9/11", "world trade center", "president",
	}
)

// Uppercase-heavy, space-poor text is a navigation or menu fragment.
const (
	maxUpperRatio = 0.6
	minSpaceRatio = 0.08
)

// IsBoilerplate reports whether text is navigation, footer or table debris.
func IsBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	if containsAny(lower, footerPhrases) {
		return true
	}
	if tableFragment.MatchString(text) || yearPipeRecord.MatchString(text) {
		return true
	}

	var letters, upper, spaces int
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			spaces++
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return true
	}
	upperRatio := float64(upper) / float64(letters)
	spaceRatio := float64(spaces) / float64(len([]rune(text)))
	return upperRatio > maxUpperRatio && spaceRatio < minSpaceRatio
}

// IsBaseball reports whether text mentions at least one baseball keyword.
func IsBaseball(text string) bool {
	return containsAny(strings.ToLower(text), baseballKeywords)
}

// IsOffTopic reports whether text is general history rather than baseball.
// The historical allowlist overrides the denylist.
func IsOffTopic(text string) bool {
	lower := strings.ToLower(text)
	if containsAny(lower, historicalAllowlist) {
		return false
	}
	return containsAny(lower, offTopicKeywords)
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Package classify decides which domain entity a markup table encodes.
package classify

import (
	"regexp"
	"strings"

	"github.com/huangsam/almanac/schema"
)

// Keyword sets. Each keyword matches on word boundaries with an optional plural suffix.
var (
	winTokens       = keywords("won")
	lossTokens      = keywords("lost")
	standingsTokens = keywords("pct", "gb", "streak", "home", "road")
	hittingTokens   = keywords("batting average", "home run", "rbi", "hits", "doubles")
	pitchingTokens  = keywords("era", "strikeouts", "pitcher", "complete games")
	teamTokens      = keywords("team", "club", "league")
)

// Rule pairs a predicate over lower-cased text with the kind it yields.
type Rule struct {
	Kind  schema.TableKind
	Match func(text string) bool
}

// Rules are evaluated in order and the first match wins. Standings come first because
// their vocabulary overlaps both stat tables. Pitching must also exclude the win token.
var Rules = []Rule{
	{Kind: schema.StandingsTable, Match: func(text string) bool {
		return winTokens.any(text) && lossTokens.any(text) && standingsTokens.any(text)
	}},
	{Kind: schema.HittingTable, Match: func(text string) bool {
		return hittingTokens.any(text) && !teamTokens.any(text)
	}},
	{Kind: schema.PitchingTable, Match: func(text string) bool {
		return pitchingTokens.any(text) && !teamTokens.any(text) && !winTokens.any(text)
	}},
}

// Classify returns the kind of a table from its own text and its surrounding context.
func Classify(tableText, contextText string) schema.TableKind {
	text := strings.ToLower(tableText + " " + contextText)
	for _, r := range Rules {
		if r.Match(text) {
			return r.Kind
		}
	}
	return schema.UnknownTable
}

type keywordSet []*regexp.Regexp

func keywords(words ...string) keywordSet {
	set := make(keywordSet, len(words))
	for i, w := range words {
		set[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `(?:s|es)?\b`)
	}
	return set
}

func (k keywordSet) any(text string) bool {
	for _, re := range k {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

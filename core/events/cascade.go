package events

import (
	"regexp"
	"strings"

	"github.com/huangsam/almanac/schema"
)

// Rule pairs an event type with the cues that identify it.
type Rule struct {
	Type schema.EventType
	cue  *regexp.Regexp
}

// Matches reports whether the lower-cased text carries this rule's cues.
func (r Rule) Matches(lower string) bool {
	return r.cue.MatchString(lower)
}

// cues builds a matcher where every keyword must start on a word boundary.
// Keywords are stems, so "retire" also matches "retirement".
func cues(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// Cascade is evaluated in order and the first match wins. A description that fits
// several rules takes the earliest one.
var Cascade = []Rule{
	{schema.WorldSeriesEvent, cues("world series", "championship", "swept", "fall classic")},
	{schema.NoHitterEvent, cues("no-hitter", "no hitter", "no-hit", "perfect game")},
	{schema.RecordBrokenEvent, cues("record", "broke ", "broken", "set a new", "surpass", "first player")},
	{schema.DebutEvent, cues("debut", "rookie", "first game", "first african-american", "first black", "color barrier")},
	{schema.RetirementEvent, cues("retire", "final game", "last season", "farewell")},
	{schema.DeathEvent, cues("death", "died", "passed away", "killed")},
	{schema.AwardEvent, cues("mvp", "most valuable player", "cy young", "hall of fame", "award", "honor")},
	{schema.TransactionEvent, cues("traded", "trade for", "trade with", "signed", "contract", "acquired", "purchased", "sold to", "free agent")},
	{schema.RuleChangeEvent, cues("rule", "designated hitter", "mound", "expansion", "wild card", "strike zone")},
	{schema.MilestoneEvent, cues("milestone", "consecutive", "3,000th", "3000th", "500th", "300th", "career hit", "career home run")},
}

// Classify returns the event type of a description. It is a pure function of the text.
func Classify(description string) schema.EventType {
	lower := strings.ToLower(description)
	for _, r := range Cascade {
		if r.Matches(lower) {
			return r.Type
		}
	}
	return schema.NotableEvent
}

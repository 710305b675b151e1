package extract

import (
	"regexp"
	"strings"

	"github.com/huangsam/almanac/schema"
)

type categoryCue struct {
	category schema.StatCategory
	pattern  *regexp.Regexp
	// label matches short header abbreviations case-sensitively, so "SO" in a
	// header cell counts and "so far" in prose does not.
	label *regexp.Regexp
}

// Cues are tried in order. "runs" alone must not fire on "home runs" or "runs batted in",
// so those phrases are removed before the plain runs cue is checked.
var (
	hittingCues = []categoryCue{
		{schema.HomeRuns, regexp.MustCompile(`\bhome ?runs?\b`), regexp.MustCompile(`\bHRs?\b`)},
		{schema.RBI, regexp.MustCompile(`\brbis?\b|\bruns batted in\b`), nil},
		{schema.TotalBases, regexp.MustCompile(`\btotal bases\b`), regexp.MustCompile(`\bTB\b`)},
		{schema.Doubles, regexp.MustCompile(`\bdoubles?\b`), regexp.MustCompile(`\b2B\b`)},
		{schema.Triples, regexp.MustCompile(`\btriples?\b`), regexp.MustCompile(`\b3B\b`)},
		{schema.Runs, regexp.MustCompile(`\bruns?\b`), nil},
		{schema.Hits, regexp.MustCompile(`\bhits?\b`), nil},
		{schema.BattingAverage, regexp.MustCompile(`\bbatting average\b`), regexp.MustCompile(`\b(?:AVG|Avg)\b`)},
	}
	pitchingCues = []categoryCue{
		{schema.ERA, regexp.MustCompile(`\bearned run average\b`), regexp.MustCompile(`\bERA\b`)},
		{schema.Strikeouts, regexp.MustCompile(`\bstrikeouts?\b`), regexp.MustCompile(`\b(?:SO|K)\b`)},
		{schema.CompleteGames, regexp.MustCompile(`\bcomplete games?\b`), regexp.MustCompile(`\bCG\b`)},
		{schema.Shutouts, regexp.MustCompile(`\bshutouts?\b`), regexp.MustCompile(`\bSHO\b`)},
		{schema.Saves, regexp.MustCompile(`\bsaves?\b`), regexp.MustCompile(`\bSV\b`)},
		{schema.Wins, regexp.MustCompile(`\bwins?\b`), nil},
	}
	compoundRuns = regexp.MustCompile(`\bhome ?runs?\b|\bruns batted in\b`)
)

// Cues returns the categories named in text, in cue order.
func Cues(family schema.StatFamily, text string) []schema.StatCategory {
	cues := hittingCues
	if family == schema.PitchingFamily {
		cues = pitchingCues
	}

	lower := strings.ToLower(text)
	stripped := compoundRuns.ReplaceAllString(lower, " ")

	var found []schema.StatCategory
	for _, c := range cues {
		subject := lower
		if c.category == schema.Runs {
			subject = stripped
		}
		if c.pattern.MatchString(subject) || (c.label != nil && c.label.MatchString(text)) {
			found = append(found, c.category)
		}
	}
	return found
}

// InferCategory labels a bare integer. Categories named in the row are tried before
// those named in the table context; the first whose range holds the value wins.
// When none holds it, the first named category is kept for the validator to judge.
// Without any cue the family placeholder is returned.
func InferCategory(family schema.StatFamily, value float64, row, context string) schema.StatCategory {
	candidates := append(Cues(family, row), Cues(family, context)...)
	for _, c := range candidates {
		if r, ok := c.Range(); ok && r.Contains(value) {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return schema.PlaceholderFor(family)
}

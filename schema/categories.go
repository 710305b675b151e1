package schema

import "strings"

// StatCategory names a statistical metric tracked for league leaders.
type StatCategory string

// Hitting categories.
const (
	HomeRuns       StatCategory = "Home Runs"
	RBI            StatCategory = "RBI"
	Hits           StatCategory = "Hits"
	Runs           StatCategory = "Runs"
	BattingAverage StatCategory = "Batting Average"
	Doubles        StatCategory = "Doubles"
	Triples        StatCategory = "Triples"
	TotalBases     StatCategory = "Total Bases"
)

// Pitching categories.
const (
	ERA           StatCategory = "ERA"
	Wins          StatCategory = "Wins"
	Strikeouts    StatCategory = "Strikeouts"
	CompleteGames StatCategory = "Complete Games"
	Shutouts      StatCategory = "Shutouts"
	Saves         StatCategory = "Saves"
)

// Placeholders assigned when a value was found but its category could not be inferred.
const (
	UnknownHittingStat  StatCategory = "Unknown Hitting Stat"
	UnknownPitchingStat StatCategory = "Unknown Pitching Stat"
)

// StatRange is the historically plausible band for a category.
type StatRange struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	TypicalMax float64 `json:"typical_max"`
}

// Contains reports whether v lies within [Min, Max].
func (r StatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// StatRanges is the authoritative range table. Categories absent from it are never inferred.
var StatRanges = map[StatCategory]StatRange{
	HomeRuns:       {Min: 1, Max: 75, TypicalMax: 65},
	RBI:            {Min: 10, Max: 200, TypicalMax: 165},
	Hits:           {Min: 50, Max: 300, TypicalMax: 250},
	Runs:           {Min: 20, Max: 200, TypicalMax: 150},
	BattingAverage: {Min: 0.180, Max: 0.450, TypicalMax: 0.400},
	Doubles:        {Min: 5, Max: 70, TypicalMax: 60},
	Triples:        {Min: 1, Max: 30, TypicalMax: 25},
	TotalBases:     {Min: 50, Max: 500, TypicalMax: 450},
	ERA:            {Min: 1.00, Max: 8.00, TypicalMax: 6.00},
	Wins:           {Min: 5, Max: 35, TypicalMax: 30},
	Strikeouts:     {Min: 50, Max: 400, TypicalMax: 350},
	CompleteGames:  {Min: 1, Max: 40, TypicalMax: 35},
	Shutouts:       {Min: 1, Max: 15, TypicalMax: 12},
	Saves:          {Min: 10, Max: 65, TypicalMax: 55},
}

// HittingCategories lists the hitting categories in display order.
var HittingCategories = []StatCategory{HomeRuns, RBI, Hits, Runs, BattingAverage, Doubles, Triples, TotalBases}

// PitchingCategories lists the pitching categories in display order.
var PitchingCategories = []StatCategory{ERA, Wins, Strikeouts, CompleteGames, Shutouts, Saves}

// ConfusionSets lists, per family, categories whose values get mislabeled as one another.
var ConfusionSets = map[StatFamily][]StatCategory{
	HittingFamily:  {HomeRuns, Hits, RBI, TotalBases},
	PitchingFamily: {ERA, CompleteGames, Strikeouts},
}

var categoryFamilies = func() map[StatCategory]StatFamily {
	m := make(map[StatCategory]StatFamily, len(StatRanges))
	for _, c := range HittingCategories {
		m[c] = HittingFamily
	}
	for _, c := range PitchingCategories {
		m[c] = PitchingFamily
	}
	m[UnknownHittingStat] = HittingFamily
	m[UnknownPitchingStat] = PitchingFamily
	return m
}()

var categoriesByName = func() map[string]StatCategory {
	m := make(map[string]StatCategory, len(categoryFamilies))
	for c := range categoryFamilies {
		m[strings.ToLower(string(c))] = c
	}
	return m
}()

// Family returns the stat family the category belongs to.
func (c StatCategory) Family() (StatFamily, bool) {
	f, ok := categoryFamilies[c]
	return f, ok
}

// Range returns the range table entry for the category.
func (c StatCategory) Range() (StatRange, bool) {
	r, ok := StatRanges[c]
	return r, ok
}

// IsPlaceholder reports whether the category is an "Unknown ... Stat" placeholder.
func (c StatCategory) IsPlaceholder() bool {
	return c == UnknownHittingStat || c == UnknownPitchingStat
}

// PlaceholderFor returns the placeholder category of a family.
func PlaceholderFor(f StatFamily) StatCategory {
	if f == PitchingFamily {
		return UnknownPitchingStat
	}
	return UnknownHittingStat
}

// LookupCategory matches s against known category names, ignoring case and surrounding space.
// Placeholders are not matched.
func LookupCategory(s string) (StatCategory, bool) {
	c, ok := categoriesByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok || c.IsPlaceholder() {
		return "", false
	}
	return c, true
}

// ParseCategory is like LookupCategory but also accepts placeholders.
func ParseCategory(s string) (StatCategory, bool) {
	c, ok := categoriesByName[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

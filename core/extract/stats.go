package extract

import (
	"github.com/huangsam/almanac/core/token"
	"github.com/huangsam/almanac/schema"
)

// Reasons a row yields no record.
const (
	reasonNoName  = "no player name"
	reasonNoValue = "no stat value"
	reasonNoTeam  = "no team name"
	reasonNoWL    = "no won-lost pair"
	reasonRange   = "won-lost outside plausible range"
)

// rankWindow is how many cells before the name may hold the rank.
const rankWindow = 2

// StatRow extracts a leader entry from one row of a hitting or pitching table.
// It returns a non-empty reason when the row yields nothing.
func StatRow(cells []string, family schema.StatFamily, context string, year int) (schema.StatRecord, string) {
	tokens := token.Tokenize(cells)

	nameIdx := findName(tokens)
	if nameIdx < 0 {
		return schema.StatRecord{}, reasonNoName
	}

	category, value, ok := findValue(tokens[nameIdx+1:], family, rowText(tokens), context)
	if !ok {
		return schema.StatRecord{}, reasonNoValue
	}

	return schema.StatRecord{
		Year:         year,
		Rank:         findRank(tokens, nameIdx),
		PlayerName:   tokens[nameIdx].Text,
		Team:         findTeam(tokens, nameIdx),
		StatCategory: category,
		StatValue:    value,
	}, ""
}

// findName returns the first capitalized-name cell longer than five characters that
// is not a stat category name.
func findName(tokens []token.Token) int {
	for i, t := range tokens {
		if t.Kind != token.CapitalizedName || len([]rune(t.Text)) <= 5 {
			continue
		}
		if _, isCategory := schema.LookupCategory(t.Text); isCategory {
			continue
		}
		return i
	}
	return -1
}

// findRank returns the nearest integer among the cells just before the name.
func findRank(tokens []token.Token, nameIdx int) *int {
	for i := nameIdx - 1; i >= 0 && i >= nameIdx-rankWindow; i-- {
		if v, ok := tokens[i].Int(); ok {
			return &v
		}
	}
	return nil
}

// findTeam returns the nearest following short cell that is neither a number nor a category.
func findTeam(tokens []token.Token, nameIdx int) string {
	for _, t := range tokens[nameIdx+1:] {
		if t.Text == "" || t.IsNumeric() || len([]rune(t.Text)) > token.MaxShortText {
			continue
		}
		if _, isCategory := schema.LookupCategory(t.Text); isCategory {
			continue
		}
		return t.Text
	}
	return ""
}

// findValue scans the cells after the name: a three-decimal average first, then a
// two-decimal ERA, then a plain integer labeled from keyword context.
// A decimal shape only counts when its category belongs to the table's family.
func findValue(after []token.Token, family schema.StatFamily, row, context string) (schema.StatCategory, float64, bool) {
	shapes := []struct {
		kind     token.Kind
		category schema.StatCategory
	}{
		{token.Decimal3, schema.BattingAverage},
		{token.Decimal2, schema.ERA},
	}
	for _, shape := range shapes {
		if f, _ := shape.category.Family(); f != family {
			continue
		}
		for _, t := range after {
			if t.Kind != shape.kind {
				continue
			}
			if v, ok := t.Float(); ok && v > 0 {
				return shape.category, v, true
			}
		}
	}

	for _, t := range after {
		if v, ok := t.Int(); ok && v > 0 {
			return InferCategory(family, float64(v), row, context), float64(v), true
		}
	}
	return "", 0, false
}

func rowText(tokens []token.Token) string {
	b := make([]byte, 0, 64)
	for _, t := range tokens {
		b = append(b, t.Text...)
		b = append(b, ' ')
	}
	return string(b)
}

package extract

import (
	"github.com/huangsam/almanac/core/token"
	"github.com/huangsam/almanac/schema"
)

// Standings acceptance thresholds.
const (
	minStandingsCell  = 30  // smaller integers are ranks or games behind
	minStandingsGames = 140 // shorter lines are partial seasons or header noise
)

// StandingsRow extracts a won-lost line from one row of a standings table.
// It returns a non-empty reason when the row yields nothing.
func StandingsRow(cells []string, year int) (schema.StandingsRecord, string) {
	tokens := token.Tokenize(cells)

	teamIdx := -1
	for i, t := range tokens {
		if !t.IsNumeric() && schema.ContainsTeamKeyword(t.Text) {
			teamIdx = i
			break
		}
	}
	if teamIdx < 0 {
		return schema.StandingsRecord{}, reasonNoTeam
	}

	var counts []int
	for _, t := range tokens[teamIdx+1:] {
		if v, ok := t.Int(); ok && v >= minStandingsCell {
			counts = append(counts, v)
			if len(counts) == 2 {
				break
			}
		}
	}
	if len(counts) < 2 {
		return schema.StandingsRecord{}, reasonNoWL
	}

	wins, losses := counts[0], counts[1]
	if wins <= minStandingsCell || losses <= minStandingsCell || wins+losses < minStandingsGames {
		return schema.StandingsRecord{}, reasonRange
	}

	return schema.StandingsRecord{
		Year:     year,
		TeamName: tokens[teamIdx].Text,
		Wins:     wins,
		Losses:   losses,
		WinPct:   schema.WinPct(wins, losses),
	}, ""
}

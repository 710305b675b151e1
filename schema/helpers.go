package schema

import (
	"math"
	"strings"
)

// RoundTo rounds v to the given number of decimal places, half away from zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// WinPct returns wins/(wins+losses) rounded to three places, or 0 for no games.
func WinPct(wins, losses int) float64 {
	games := wins + losses
	if games <= 0 {
		return 0
	}
	return RoundTo(float64(wins)/float64(games), 3)
}

// CollapseSpace trims s and replaces internal whitespace runs with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

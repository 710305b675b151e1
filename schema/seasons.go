package schema

import (
	"fmt"
	"strings"
)

// SignificantYears are the seasons scraped when no years are configured.
var SignificantYears = []int{1927, 1947, 1961, 1969, 1994, 1998, 2001, 2016, 2020, 2023}

// SeasonTolerance is how far wins+losses may stray from the expected season length.
const SeasonTolerance = 12

// FirstSeason is the earliest season the almanac covers.
const FirstSeason = 1871

// DefaultBaseURL is the almanac year-page template. {year} is replaced by the season.
const DefaultBaseURL = "https://www.baseball-almanac.com/yearly/yr{year}a.shtml"

// ExpectedSeasonGames returns the scheduled games per team for a season.
func ExpectedSeasonGames(year int) int {
	switch {
	case year == 2020:
		return 60
	case year < 1961:
		return 154
	default:
		return 162
	}
}

// SeasonLengthPlausible reports whether games played is within tolerance of the schedule.
func SeasonLengthPlausible(year, games int) bool {
	diff := games - ExpectedSeasonGames(year)
	if diff < 0 {
		diff = -diff
	}
	return diff <= SeasonTolerance
}

// YearURL expands the base URL template for a season.
func YearURL(baseURL string, year int) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.ReplaceAll(baseURL, "{year}", fmt.Sprint(year))
}

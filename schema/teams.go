package schema

import "strings"

// TeamKeywords is the franchise and city vocabulary used to recognize team rows.
var TeamKeywords = []string{
	"yankees", "red sox", "tigers", "white sox", "athletics", "orioles", "angels",
	"rangers", "mariners", "astros", "twins", "royals", "indians", "guardians", "rays",
	"blue jays", "brewers", "cubs", "pirates", "cardinals", "reds", "dodgers", "giants",
	"padres", "rockies", "diamondbacks", "mets", "phillies", "nationals", "marlins",
	"braves", "senators", "pilots", "browns",
	"cleveland", "new york", "detroit", "chicago", "boston", "minnesota", "seattle",
	"kansas city", "tampa bay", "texas", "oakland", "toronto", "philadelphia",
}

// UnknownTeam is the team assigned when the true team could not be recovered.
const UnknownTeam = "Unknown"

// ContainsTeamKeyword reports whether s contains any team keyword.
func ContainsTeamKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range TeamKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type cityMapping struct {
	city    string
	resolve func(year int) string
}

func fixed(name string) func(int) string {
	return func(int) string { return name }
}

func byEra(lastYear int, before, after string) func(int) string {
	return func(year int) string {
		if year <= lastYear {
			return before
		}
		return after
	}
}

// cityMappings is ordered so that longer city names are tried before their prefixes.
var cityMappings = []cityMapping{
	{"new york", fixed("New York Yankees")},
	{"boston", fixed("Boston Red Sox")},
	{"detroit", fixed("Detroit Tigers")},
	{"chicago", fixed("Chicago White Sox")},
	{"philadelphia", fixed("Philadelphia Athletics")},
	{"st. louis", byEra(1953, "St. Louis Browns", "St. Louis Cardinals")},
	{"washington", byEra(1971, "Washington Senators", "Washington Nationals")},
	{"cleveland", fixed("Cleveland Indians")},
	{"baltimore", fixed("Baltimore Orioles")},
	{"minnesota", fixed("Minnesota Twins")},
	{"oakland", fixed("Oakland Athletics")},
	{"kansas city", fixed("Kansas City Royals")},
	{"milwaukee", fixed("Milwaukee Brewers")},
	{"toronto", fixed("Toronto Blue Jays")},
	{"seattle", fixed("Seattle Mariners")},
	{"tampa bay", fixed("Tampa Bay Rays")},
	{"los angeles", fixed("Los Angeles Angels")},
	{"anaheim", fixed("Los Angeles Angels")},
	{"california", fixed("Los Angeles Angels")},
	{"texas", fixed("Texas Rangers")},
	{"houston", fixed("Houston Astros")},
}

// StandardizeTeam maps a bare city name to its franchise for the given season.
// Names that already carry a nickname, or are not a known city, are returned unchanged.
func StandardizeTeam(team string, year int) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(team))
	for _, m := range cityMappings {
		if key == m.city {
			return m.resolve(year), true
		}
	}
	return team, false
}

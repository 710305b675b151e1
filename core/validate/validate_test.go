package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/schema"
)

func rank(n int) *int { return &n }

func hitter(name, team string, cat schema.StatCategory, value float64) schema.StatRecord {
	return schema.StatRecord{Year: 1927, Rank: rank(1), PlayerName: name, Team: team, StatCategory: cat, StatValue: value}
}

func issueTypes(issues []schema.QualityIssue) []schema.IssueType {
	out := make([]schema.IssueType, len(issues))
	for i, is := range issues {
		out[i] = is.IssueType
	}
	return out
}

func TestValidateStatsAccepts(t *testing.T) {
	v := New(nil)
	got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.HomeRuns, 60)})

	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].QualityScore)
	assert.Equal(t, schema.HighQuality, got[0].QualityLevel)
	assert.Empty(t, v.Issues())
}

func TestFieldOrderRepair(t *testing.T) {
	t.Run("transposed row", func(t *testing.T) {
		v := New(nil)
		rec := hitter("Home Runs", "Lou Gehrig", schema.UnknownHittingStat, 47)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{rec})

		require.Len(t, got, 1)
		assert.Equal(t, "Lou Gehrig", got[0].PlayerName)
		assert.Equal(t, schema.UnknownTeam, got[0].Team)
		assert.Equal(t, schema.HomeRuns, got[0].StatCategory)
		assert.Equal(t, 47.0, got[0].StatValue)
		assert.Equal(t, 75.0, got[0].QualityScore)
		assert.Equal(t, schema.MediumQuality, got[0].QualityLevel)
		assert.Equal(t, []schema.IssueType{schema.IssueFieldConfusion}, issueTypes(v.Issues()))
		assert.Equal(t, schema.SeverityLow, v.Issues()[0].Severity)
	})

	t.Run("keeps a known category", func(t *testing.T) {
		v := New(nil)
		rec := hitter("rbi", "Hack Wilson", schema.HomeRuns, 56)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{rec})

		require.Len(t, got, 1)
		assert.Equal(t, "Hack Wilson", got[0].PlayerName)
		assert.Equal(t, schema.HomeRuns, got[0].StatCategory)
	})

	t.Run("wrong family label stays placeholder", func(t *testing.T) {
		v := New(nil)
		rec := hitter("ERA", "Lou Gehrig", schema.UnknownHittingStat, 47)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{rec})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueFieldConfusion, schema.IssueInvalidCategory}, issueTypes(v.Issues()))
	})

	t.Run("nothing to swap in", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Hits", "", schema.Hits, 200)})

		assert.Empty(t, got)
		require.Len(t, v.Issues(), 1)
		assert.Equal(t, schema.SeverityHigh, v.Issues()[0].Severity)
	})
}

func TestTeamSuppression(t *testing.T) {
	v := New(nil)
	got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{
		hitter("New York Yankees", "AL", schema.HomeRuns, 158),
		hitter("Boston Red Sox", "AL", schema.Hits, 200),
	})

	assert.Empty(t, got)
	assert.Equal(t, []schema.IssueType{schema.IssueTeamRecord, schema.IssueTeamRecord}, issueTypes(v.Issues()))
}

func TestTeamStandardization(t *testing.T) {
	v := New(nil)
	rec := hitter("George Sisler", "St. Louis", schema.Hits, 257)
	rec.Year = 1920
	got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{rec})

	require.Len(t, got, 1)
	assert.Equal(t, "St. Louis Browns", got[0].Team)
	assert.True(t, got[0].TeamStandardized)
	assert.Contains(t, issueTypes(v.Issues()), schema.IssueTeamStandardized)
}

func TestRangeGate(t *testing.T) {
	t.Run("ambiguous alternates reject", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Hack Wilson", "CHC", schema.HomeRuns, 180)})

		assert.Empty(t, got)
		require.Len(t, v.Issues(), 1)
		issue := v.Issues()[0]
		assert.Equal(t, schema.IssueOutOfRange, issue.IssueType)
		assert.Equal(t, schema.SeverityHigh, issue.Severity)
		assert.Contains(t, issue.Description, "score 50")
	})

	t.Run("single alternate relabels", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.RBI, 457)})

		require.Len(t, got, 1)
		assert.Equal(t, schema.TotalBases, got[0].StatCategory)
		assert.True(t, got[0].StatCategoryCorrected)
		assert.Equal(t, schema.SeverityLow, v.Issues()[0].Severity)
		assert.Contains(t, issueTypes(v.Issues()), schema.IssueSuspiciousValue)
		assert.Equal(t, 80.0, got[0].QualityScore)
	})

	t.Run("pitching relabel", func(t *testing.T) {
		v := New(nil)
		rec := hitter("Nolan Ryan", "CAL", schema.CompleteGames, 383)
		rec.StatCategory = schema.ERA
		got := v.ValidateStats(schema.PitchingDataset, []schema.StatRecord{rec})

		require.Len(t, got, 1)
		assert.Equal(t, schema.Strikeouts, got[0].StatCategory)
	})

	t.Run("outside confusion set rejects", func(t *testing.T) {
		for _, tc := range []struct {
			category schema.StatCategory
			value    float64
		}{
			{schema.Saves, 70},
			{schema.Wins, 38},
			{schema.Shutouts, 16},
		} {
			v := New(nil)
			rec := hitter("Ed Walsh", "CHW", tc.category, tc.value)
			got := v.ValidateStats(schema.PitchingDataset, []schema.StatRecord{rec})

			assert.Empty(t, got, "%s %v", tc.category, tc.value)
			require.Len(t, v.Issues(), 1)
			assert.Equal(t, schema.IssueOutOfRange, v.Issues()[0].IssueType)
			assert.Empty(t, Alternates(schema.PitchingFamily, tc.category, tc.value))
		}
	})

	t.Run("no alternate rejects", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Ty Cobb", "DET", schema.Triples, 900)})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueOutOfRange}, issueTypes(v.Issues()))
	})

	t.Run("soft outlier is kept", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Barry Bonds", "SF", schema.HomeRuns, 73)})

		require.Len(t, got, 1)
		assert.Equal(t, 80.0, got[0].QualityScore)
		assert.Equal(t, schema.MediumQuality, got[0].QualityLevel)
		assert.Equal(t, schema.SeverityMedium, v.Issues()[0].Severity)
	})

	t.Run("placeholder rejects", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.UnknownHittingStat, 60)})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueInvalidCategory}, issueTypes(v.Issues()))
	})

	t.Run("wrong family rejects", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.PitchingDataset, []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.HomeRuns, 60)})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueInvalidCategory}, issueTypes(v.Issues()))
	})
}

func TestScoringAndHygiene(t *testing.T) {
	t.Run("low quality is excluded", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter("Ott", "", schema.HomeRuns, 70)})

		assert.Empty(t, got)
		issues := v.Issues()
		require.NotEmpty(t, issues)
		last := issues[len(issues)-1]
		assert.Equal(t, schema.IssueLowQuality, last.IssueType)
		assert.Equal(t, schema.SeverityInvalid, last.Severity)
	})

	t.Run("short name rejects", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter(`"Ed"`, "BOS", schema.Hits, 200)})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueShortName}, issueTypes(v.Issues()))
	})

	t.Run("quotes stripped", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{hitter(` "Rogers Hornsby", `, "STL", schema.BattingAverage, 0.424)})

		require.Len(t, got, 1)
		assert.Equal(t, "Rogers Hornsby", got[0].PlayerName)
	})

	t.Run("missing values reject", func(t *testing.T) {
		v := New(nil)
		got := v.ValidateStats(schema.HittingDataset, []schema.StatRecord{
			hitter("", "NYY", schema.HomeRuns, 60),
			hitter("Babe Ruth", "NYY", schema.HomeRuns, 0),
		})

		assert.Empty(t, got)
		assert.Equal(t, []schema.IssueType{schema.IssueMissingValue, schema.IssueMissingValue}, issueTypes(v.Issues()))
	})

	t.Run("unknown dataset", func(t *testing.T) {
		assert.Nil(t, New(nil).ValidateStats(schema.StandingsDataset, []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.HomeRuns, 60)}))
	})
}

func TestValidateStatsIdempotent(t *testing.T) {
	input := []schema.StatRecord{
		hitter("Home Runs", "Lou Gehrig", schema.UnknownHittingStat, 47),
		hitter("Babe Ruth", "NYY", schema.RBI, 457),
		hitter("George Sisler", "St. Louis", schema.Hits, 257),
		hitter("Barry Bonds", "SF", schema.HomeRuns, 73),
		hitter("Hack Wilson", "CHC", schema.HomeRuns, 180),
		hitter("Detroit Tigers", "AL", schema.Hits, 200),
	}

	first := New(nil).ValidateStats(schema.HittingDataset, input)
	second := New(nil).ValidateStats(schema.HittingDataset, first)
	assert.Equal(t, first, second)
}

func TestRangeInvariant(t *testing.T) {
	var input []schema.StatRecord
	for _, cat := range schema.HittingCategories {
		for _, value := range []float64{0.3, 1, 25, 60, 120, 180, 260, 350, 480, 700} {
			input = append(input, hitter("Stan Musial", "STL", cat, value))
		}
	}

	got := New(nil).ValidateStats(schema.HittingDataset, input)
	require.NotEmpty(t, got)
	for _, rec := range got {
		r, ok := rec.StatCategory.Range()
		require.True(t, ok)
		assert.NotEqual(t, schema.InvalidQuality, rec.QualityLevel)
		assert.True(t, r.Contains(rec.StatValue), "%s %v", rec.StatCategory, rec.StatValue)
	}
}

func TestAlternates(t *testing.T) {
	assert.ElementsMatch(t,
		[]schema.StatCategory{schema.Hits, schema.RBI, schema.TotalBases},
		Alternates(schema.HittingFamily, schema.HomeRuns, 180))
	assert.Equal(t, []schema.StatCategory{schema.TotalBases}, Alternates(schema.HittingFamily, schema.RBI, 457))
	assert.Empty(t, Alternates(schema.PitchingFamily, schema.ERA, 500))
}

func TestValidateStandings(t *testing.T) {
	v := New(nil)
	got := v.ValidateStandings([]schema.StandingsRecord{
		{Year: 1927, TeamName: "New York  Yankees", Wins: 110, Losses: 44, WinPct: 0.5},
		{Year: 1927, TeamName: "New York Yankees", Wins: 110, Losses: 44},
		{Year: 1927, TeamName: "Boston Red Sox", Wins: 51, Losses: 50},
		{Year: 2020, TeamName: "Los Angeles Dodgers", Wins: 43, Losses: 17},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "New York Yankees", got[0].TeamName)
	for _, rec := range got {
		exact := float64(rec.Wins) / float64(rec.Wins+rec.Losses)
		assert.InDelta(t, exact, rec.WinPct, 0.001)
	}
	assert.Equal(t, []schema.IssueType{schema.IssueDuplicateRecord, schema.IssueSeasonLength}, issueTypes(v.Issues()))
}

func TestValidateEvents(t *testing.T) {
	v := New(nil)
	desc := "Lou Gehrig announced his retirement due to illness, ending a legendary career."
	got := v.ValidateEvents([]schema.EventRecord{
		{Year: 1939, Description: desc, EventType: schema.AwardEvent, Participants: []string{"Lou Gehrig", "The Game"}},
		{Year: 1939, Description: "  " + desc},
		{Year: 1939, Description: "Too short."},
	})

	require.Len(t, got, 1)
	assert.Equal(t, schema.RetirementEvent, got[0].EventType)
	assert.Equal(t, []string{"Lou Gehrig"}, got[0].Participants)
	assert.Equal(t, []schema.IssueType{schema.IssueDuplicateRecord, schema.IssueMissingValue}, issueTypes(v.Issues()))
}

func TestBatchAndReset(t *testing.T) {
	v := New(nil)
	out := v.Batch(schema.Batch{
		Hitting:  []schema.StatRecord{hitter("Babe Ruth", "NYY", schema.HomeRuns, 60)},
		Pitching: []schema.StatRecord{{Year: 1927, PlayerName: "Waite Hoyt", Team: "NYY", StatCategory: schema.Wins, StatValue: 22}},
		Events:   []schema.EventRecord{{Year: 1927, Description: strings.Repeat("x", 10)}},
	})

	assert.Equal(t, 2, out.Len())
	assert.Len(t, v.Issues(), 1)
	v.Reset()
	assert.Empty(t, v.Issues())
}

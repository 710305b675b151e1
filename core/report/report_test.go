package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/schema"
)

func TestRetentionRate(t *testing.T) {
	assert.Equal(t, 0.0, RetentionRate(0, 0))
	assert.Equal(t, 100.0, RetentionRate(4, 4))
	assert.Equal(t, 66.7, RetentionRate(3, 2))
	assert.Equal(t, 33.3, RetentionRate(3, 1))
}

func TestBuild(t *testing.T) {
	issues := []schema.QualityIssue{
		{RecordID: "a", Field: "stat_value", IssueType: schema.IssueOutOfRange, Severity: schema.SeverityHigh},
		{RecordID: "b", Field: "stat_value", IssueType: schema.IssueSuspiciousValue, Severity: schema.SeverityMedium},
		{RecordID: "c", Field: "player_name", IssueType: schema.IssueTeamRecord, Severity: schema.SeverityMedium},
	}
	summaries := []schema.DatasetSummary{{Dataset: schema.HittingDataset, OriginalRows: 3, CleanedRows: 1}}

	rep := Build(issues, summaries)
	assert.Equal(t, 3, rep.TotalIssues)
	assert.Equal(t, map[schema.Severity]int{schema.SeverityHigh: 1, schema.SeverityMedium: 2}, rep.IssuesBySeverity)
	assert.Equal(t, 1, rep.IssuesByType[schema.IssueOutOfRange])
	assert.Equal(t, map[string]int{"stat_value": 2, "player_name": 1}, rep.IssuesByField)
	assert.Equal(t, summaries, rep.Datasets)

	rep.Datasets[0].CleanedRows = 99
	assert.Equal(t, 1, summaries[0].CleanedRows)
}

func TestBuildEmpty(t *testing.T) {
	rep := Build(nil, nil)
	assert.Zero(t, rep.TotalIssues)
	assert.Empty(t, rep.IssuesBySeverity)
	assert.NotNil(t, rep.IssuesByType)
}

func TestSummarizeStats(t *testing.T) {
	original := []schema.StatRecord{
		{Year: 1927, PlayerName: "Babe Ruth", StatCategory: schema.HomeRuns},
		{Year: 1927, PlayerName: "Lou Gehrig", StatCategory: schema.RBI},
		{Year: 1961, PlayerName: "Roger Maris", StatCategory: schema.HomeRuns},
		{Year: 1961, PlayerName: "New York Yankees", StatCategory: schema.HomeRuns},
	}
	cleaned := []schema.StatRecord{
		{Year: 1927, PlayerName: "Babe Ruth", StatCategory: schema.HomeRuns, QualityLevel: schema.HighQuality},
		{Year: 1927, PlayerName: "Lou Gehrig", StatCategory: schema.RBI, QualityLevel: schema.HighQuality},
		{Year: 1961, PlayerName: "Roger Maris", StatCategory: schema.HomeRuns, QualityLevel: schema.MediumQuality},
	}

	s := SummarizeStats(schema.HittingDataset, original, cleaned)
	assert.Equal(t, 4, s.OriginalRows)
	assert.Equal(t, 3, s.CleanedRows)
	assert.Equal(t, 75.0, s.RetentionRate)
	assert.Equal(t, 1, s.RecordsRemoved)
	assert.Equal(t, 3, s.UniqueNames)
	assert.Equal(t, "1927 - 1961", s.YearRange)
	assert.Equal(t, []string{"Home Runs", "RBI"}, s.Categories)
	assert.Equal(t, map[schema.QualityLevel]int{schema.HighQuality: 2, schema.MediumQuality: 1}, s.QualityDistribution)
}

func TestSummarize(t *testing.T) {
	original := schema.Batch{
		Standings: []schema.StandingsRecord{{Year: 1927, TeamName: "New York Yankees"}, {Year: 1927, TeamName: "Boston Red Sox"}},
		Events: []schema.EventRecord{{
			Year: 1939, EventType: schema.RetirementEvent, Participants: []string{"Lou Gehrig"},
		}},
	}
	cleaned := schema.Batch{
		Standings: original.Standings[:1],
		Events:    original.Events,
	}

	got := Summarize(original, cleaned)
	require.Len(t, got, 4)
	assert.Equal(t, schema.HittingDataset, got[0].Dataset)
	assert.Equal(t, "N/A", got[0].YearRange)
	assert.Zero(t, got[0].RetentionRate)

	assert.Equal(t, 50.0, got[2].RetentionRate)
	assert.Equal(t, 1, got[2].UniqueNames)
	assert.Equal(t, "1927 - 1927", got[2].YearRange)

	assert.Equal(t, []string{"Retirement"}, got[3].Categories)
	assert.Equal(t, 1, got[3].UniqueNames)
}

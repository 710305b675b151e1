package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

func intPtr(n int) *int { return &n }

func testConfig(t *testing.T, out schema.OutputMode, ext string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       out,
		OutputFile:   filepath.Join(t.TempDir(), "out."+ext),
		Precision:    1,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

var (
	leaders = []schema.StatRecord{
		{Year: 1927, Rank: intPtr(1), PlayerName: "Babe Ruth", Team: "New York Yankees", StatCategory: schema.HomeRuns, StatValue: 60, QualityScore: 100, QualityLevel: schema.HighQuality},
		{Year: 1927, PlayerName: "Harry Heilmann", Team: "Detroit Tigers", StatCategory: schema.BattingAverage, StatValue: 0.398, QualityScore: 75, QualityLevel: schema.MediumQuality, TeamStandardized: true},
	}
	sampleReport = schema.QualityReport{
		Datasets: []schema.DatasetSummary{
			{Dataset: schema.HittingDataset, OriginalRows: 10, CleanedRows: 8, RetentionRate: 80, RecordsRemoved: 2,
				QualityDistribution: map[schema.QualityLevel]int{schema.HighQuality: 6, schema.MediumQuality: 2}, UniqueNames: 7, YearRange: "1927 - 1927"},
			{Dataset: schema.StandingsDataset, OriginalRows: 2, CleanedRows: 2, RetentionRate: 100, UniqueNames: 2, YearRange: "1927 - 1927"},
		},
		TotalIssues:      3,
		IssuesBySeverity: map[schema.Severity]int{schema.SeverityHigh: 2, schema.SeverityLow: 1},
		IssuesByType:     map[schema.IssueType]int{schema.IssueOutOfRange: 2, schema.IssueTeamStandardized: 1},
		IssuesByField:    map[string]int{"stat_value": 2, "team": 1},
	}
)

func TestGetMaxTextWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		reserved int
		expected int
	}{
		{"wide terminal caps", 300, 50, 70},
		{"narrow terminal floors", 60, 50, 15},
		{"in between", 120, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTextWidth(&contract.Config{Width: tt.width}, tt.reserved))
		})
	}
}

func TestStatValue(t *testing.T) {
	assert.Equal(t, ".398", statValue(leaders[1]))
	assert.Equal(t, "60", statValue(leaders[0]))
	assert.Equal(t, "2.28", statValue(schema.StatRecord{StatCategory: schema.ERA, StatValue: 2.28}))
	assert.Equal(t, ".714", winPct(0.714))
	assert.Equal(t, "1.000", winPct(1))
}

func TestSortedCounts(t *testing.T) {
	got := sortedCounts(map[schema.IssueType]int{"b": 1, "a": 1, "c": 5})
	require.Len(t, got, 3)
	assert.Equal(t, countEntry{"c", 5}, got[0])
	assert.Equal(t, countEntry{"a", 1}, got[1])
	assert.Equal(t, countEntry{"b", 1}, got[2])
}

func TestWriteLeaders(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "json")
		require.NoError(t, WriteLeaders(schema.HittingDataset, leaders, cfg))

		var got []schema.StatRecord
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		assert.Equal(t, leaders, got)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "csv")
		require.NoError(t, WriteLeaders(schema.HittingDataset, leaders, cfg))

		rows := readCSV(t, cfg.OutputFile)
		require.Len(t, rows, 3)
		assert.Equal(t, "player_name", rows[0][3])
		assert.Equal(t, []string{"hitting_leaders", "1927", "1", "Babe Ruth", "New York Yankees", "Home Runs", "60", "100.0", "High", "false", "false"}, rows[1])
		assert.Equal(t, "", rows[2][2], "missing rank stays blank")
		assert.Equal(t, "true", rows[2][9])
	})

	t.Run("table", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "txt")
		require.NoError(t, WriteLeaders(schema.HittingDataset, leaders, cfg))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Babe Ruth")
		assert.Contains(t, out, ".398")
		assert.Contains(t, out, "Showing 2 hitting_leaders records")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "parquet")
		require.NoError(t, WriteLeaders(schema.HittingDataset, leaders, cfg))

		info, err := os.Stat(cfg.OutputFile)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})
}

func TestWriteStandingsAndEvents(t *testing.T) {
	standings := []schema.StandingsRecord{{Year: 1927, TeamName: "New York Yankees", Wins: 110, Losses: 44, WinPct: 0.714}}
	events := []schema.EventRecord{{
		Year: 1927, EventType: schema.WorldSeriesEvent,
		Description:  "The New York Yankees swept the Pittsburgh Pirates in the World Series.",
		Participants: []string{"Babe Ruth", "Lou Gehrig"},
	}}

	cfg := testConfig(t, schema.CSVOut, "csv")
	require.NoError(t, WriteStandings(standings, cfg))
	rows := readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1927", "New York Yankees", "110", "44", ".714"}, rows[1])

	cfg = testConfig(t, schema.CSVOut, "csv")
	require.NoError(t, WriteEvents(events, cfg))
	rows = readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 2)
	assert.Equal(t, "Babe Ruth|Lou Gehrig", rows[1][3])

	cfg = testConfig(t, schema.TextOut, "txt")
	require.NoError(t, WriteEvents(events, cfg))
	assert.Contains(t, readFile(t, cfg.OutputFile), "World Series")

	cfg = testConfig(t, schema.ParquetOut, "parquet")
	require.NoError(t, WriteStandings(standings, cfg))
	require.NoError(t, WriteEvents(events, testConfig(t, schema.ParquetOut, "parquet")))
}

func TestWriteReport(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "txt")
		require.NoError(t, WriteReport(sampleReport, cfg, 1500*time.Millisecond))

		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "hitting_leaders")
		assert.Contains(t, out, "80.0%")
		assert.Contains(t, out, "Quality issues: 3")
		assert.Contains(t, out, "out_of_range")
		assert.Less(t, strings.Index(out, "out_of_range"), strings.Index(out, "team_standardized"), "larger counts first")
		assert.Contains(t, out, "Run completed in 1.5s. Record store: sqlite")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "csv")
		require.NoError(t, WriteReport(sampleReport, cfg, time.Second))

		rows := readCSV(t, cfg.OutputFile)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"hitting_leaders", "10", "8", "80.0", "2", "6", "2", "0", "0", "7", "1927 - 1927"}, rows[1])
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "json")
		require.NoError(t, WriteReport(sampleReport, cfg, time.Second))

		var got schema.QualityReport
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		assert.Equal(t, sampleReport, got)
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		err := WriteReport(sampleReport, testConfig(t, schema.ParquetOut, "parquet"), time.Second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})
}

func TestWriteQualitySummary(t *testing.T) {
	levels := []schema.QualityLevelCount{
		{Dataset: schema.HittingDataset, QualityLevel: schema.HighQuality, Records: 12, AvgScore: 98.5},
		{Dataset: schema.PitchingDataset, QualityLevel: schema.LowQuality, Records: 1, AvgScore: 55},
	}

	cfg := testConfig(t, schema.TextOut, "txt")
	require.NoError(t, WriteQualitySummary(levels, sampleReport, cfg))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "98.5")
	assert.Contains(t, out, "Quality issues: 3")

	cfg = testConfig(t, schema.CSVOut, "csv")
	require.NoError(t, WriteQualitySummary(levels, sampleReport, cfg))
	rows := readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"pitching_leaders", "low", "1", "55.0"}, rows[2])
}

func TestWriteIssuesRunsComparison(t *testing.T) {
	issues := []schema.QualityIssue{{
		RecordID: "hitting_leaders:1927:Hack Wilson:Home Runs", Field: "stat_value", IssueType: schema.IssueOutOfRange,
		Description: "value 191 outside 1-75", Severity: schema.SeverityHigh,
	}}
	end := time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)
	runs := []schema.RunRecord{{
		RunID: 4, RunUUID: "b7f4", StartTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), EndTime: &end,
		Years: "1927,1961", Counts: map[string]int{"hitting_leaders": 20, "notable_events": 3},
	}}
	comparison := []schema.LeaderComparison{{Year: 1927, HRLeader: "Babe Ruth", HomeRuns: 60, ERALeader: "Wilcy Moore", ERA: 2.28, HRLeaderTeam: "NYY", ERALeaderTeam: "NYY"}}

	cfg := testConfig(t, schema.TextOut, "txt")
	require.NoError(t, WriteIssues(issues, cfg))
	assert.Contains(t, readFile(t, cfg.OutputFile), "Showing 1 quality issues")

	cfg = testConfig(t, schema.CSVOut, "csv")
	require.NoError(t, WriteRuns(runs, cfg))
	rows := readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"4", "b7f4", "2024-05-01T12:00:00Z", "2024-05-01T12:05:00Z", "1927,1961", "20", "0", "0", "3"}, rows[1])

	cfg = testConfig(t, schema.TextOut, "txt")
	require.NoError(t, WriteComparison(comparison, cfg))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "Babe Ruth (NYY)")
	assert.Contains(t, out, "2.28")

	require.NoError(t, WriteIssues(issues, testConfig(t, schema.ParquetOut, "parquet")))
	require.NoError(t, WriteRuns(runs, testConfig(t, schema.ParquetOut, "parquet")))
	assert.Error(t, WriteComparison(comparison, testConfig(t, schema.ParquetOut, "parquet")))
}

func TestWriteInspection(t *testing.T) {
	ins := schema.PageInspection{
		Source: "testdata/yr1927a.html", Year: 1927, Title: "1927 American League Season", TextBlocks: 4,
		Tables: []schema.TableInspection{
			{Index: 0, Kind: schema.HittingTable, Rows: 3, Records: 3, Context: "Hitting Leaders"},
			{Index: 1, Kind: schema.UnknownTable, Rows: 8, Context: "Navigation"},
		},
		Batch: schema.Batch{Hitting: leaders},
	}

	cfg := testConfig(t, schema.TextOut, "txt")
	require.NoError(t, WriteInspection(ins, cfg))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "1927 American League Season (1927)")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "Raw records: 2 hitting, 0 pitching, 0 standings, 0 events from 4 text blocks")

	cfg = testConfig(t, schema.CSVOut, "csv")
	require.NoError(t, WriteInspection(ins, cfg))
	rows := readCSV(t, cfg.OutputFile)
	assert.Equal(t, []string{"0", "hitting", "3", "3", "0", "Hitting Leaders"}, rows[1])
}

func TestWriteWithFileStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

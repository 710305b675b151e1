// Package parquet provides row types and writers for exporting almanac records to
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/almanac/schema"
)

// Leader is one hitting or pitching leader row.
type Leader struct {
	Dataset               string  `parquet:"dataset,snappy,dict"`
	Year                  int32   `parquet:"year,snappy"`
	Rank                  *int32  `parquet:"rank,optional,snappy"`
	PlayerName            string  `parquet:"player_name,snappy"`
	Team                  string  `parquet:"team,snappy,dict"`
	StatCategory          string  `parquet:"stat_category,snappy,dict"`
	StatValue             float64 `parquet:"stat_value,snappy"`
	QualityScore          float64 `parquet:"quality_score,snappy"`
	QualityLevel          string  `parquet:"quality_level,snappy,dict"`
	TeamStandardized      bool    `parquet:"team_standardized"`
	StatCategoryCorrected bool    `parquet:"stat_category_corrected"`
}

// Standing is one team season line.
type Standing struct {
	Year     int32   `parquet:"year,snappy"`
	TeamName string  `parquet:"team_name,snappy,dict"`
	Wins     int32   `parquet:"wins,snappy"`
	Losses   int32   `parquet:"losses,snappy"`
	WinPct   float64 `parquet:"win_pct,snappy"`
}

// Event is one notable event. Participants are joined with "; ".
type Event struct {
	Year         int32   `parquet:"year,snappy"`
	Description  string  `parquet:"description,snappy"`
	EventType    string  `parquet:"event_type,snappy,dict"`
	Participants *string `parquet:"participants,optional,snappy"`
}

// Issue is one quality log entry.
type Issue struct {
	RecordID     string  `parquet:"record_id,snappy"`
	Field        string  `parquet:"field,snappy,dict"`
	IssueType    string  `parquet:"issue_type,snappy,dict"`
	Description  string  `parquet:"description,snappy"`
	Severity     string  `parquet:"severity,snappy,dict"`
	SuggestedFix *string `parquet:"suggested_fix,optional,snappy"`
}

// Run is one scrape run.
type Run struct {
	RunID          int64      `parquet:"run_id,snappy"`
	RunUUID        string     `parquet:"run_uuid,snappy"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	Years          string     `parquet:"years,snappy"`
	HittingCount   int32      `parquet:"hitting_count,snappy"`
	PitchingCount  int32      `parquet:"pitching_count,snappy"`
	StandingsCount int32      `parquet:"standings_count,snappy"`
	EventsCount    int32      `parquet:"events_count,snappy"`
}

// Write writes rows to w. The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Write(file, rows)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ConvertLeaders converts stat records of a dataset to Parquet rows.
func ConvertLeaders(d schema.Dataset, records []schema.StatRecord) []Leader {
	result := make([]Leader, len(records))
	for i, r := range records {
		var rank *int32
		if r.Rank != nil {
			n := int32(*r.Rank)
			rank = &n
		}
		result[i] = Leader{
			Dataset:               string(d),
			Year:                  int32(r.Year),
			Rank:                  rank,
			PlayerName:            r.PlayerName,
			Team:                  r.Team,
			StatCategory:          string(r.StatCategory),
			StatValue:             r.StatValue,
			QualityScore:          r.QualityScore,
			QualityLevel:          string(r.QualityLevel),
			TeamStandardized:      r.TeamStandardized,
			StatCategoryCorrected: r.StatCategoryCorrected,
		}
	}
	return result
}

// ConvertStandings converts standings records to Parquet rows.
func ConvertStandings(records []schema.StandingsRecord) []Standing {
	result := make([]Standing, len(records))
	for i, r := range records {
		result[i] = Standing{
			Year:     int32(r.Year),
			TeamName: r.TeamName,
			Wins:     int32(r.Wins),
			Losses:   int32(r.Losses),
			WinPct:   r.WinPct,
		}
	}
	return result
}

// ConvertEvents converts event records to Parquet rows.
func ConvertEvents(records []schema.EventRecord) []Event {
	result := make([]Event, len(records))
	for i, r := range records {
		result[i] = Event{
			Year:         int32(r.Year),
			Description:  r.Description,
			EventType:    string(r.EventType),
			Participants: optional(strings.Join(r.Participants, "; ")),
		}
	}
	return result
}

// ConvertIssues converts quality issues to Parquet rows.
func ConvertIssues(issues []schema.QualityIssue) []Issue {
	result := make([]Issue, len(issues))
	for i, is := range issues {
		result[i] = Issue{
			RecordID:     is.RecordID,
			Field:        is.Field,
			IssueType:    string(is.IssueType),
			Description:  is.Description,
			Severity:     string(is.Severity),
			SuggestedFix: optional(is.SuggestedFix),
		}
	}
	return result
}

// ConvertRuns converts scrape runs to Parquet rows.
func ConvertRuns(runs []schema.RunRecord) []Run {
	result := make([]Run, len(runs))
	for i, r := range runs {
		result[i] = Run{
			RunID:          r.RunID,
			RunUUID:        r.RunUUID,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			Years:          r.Years,
			HittingCount:   int32(r.Counts[string(schema.HittingDataset)]),
			PitchingCount:  int32(r.Counts[string(schema.PitchingDataset)]),
			StandingsCount: int32(r.Counts[string(schema.StandingsDataset)]),
			EventsCount:    int32(r.Counts[string(schema.EventsDataset)]),
		}
	}
	return result
}

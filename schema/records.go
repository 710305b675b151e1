package schema

import (
	"fmt"
	"time"
)

// EventType classifies a notable event by what happened.
type EventType string

// All event types, in classification priority order.
const (
	WorldSeriesEvent  EventType = "World Series"
	NoHitterEvent     EventType = "No-Hitter"
	RecordBrokenEvent EventType = "Record Broken"
	DebutEvent        EventType = "Player Debut"
	RetirementEvent   EventType = "Retirement"
	DeathEvent        EventType = "Death"
	AwardEvent        EventType = "Award"
	TransactionEvent  EventType = "Transaction"
	RuleChangeEvent   EventType = "Rule Change"
	MilestoneEvent    EventType = "Milestone"
	NotableEvent      EventType = "Notable Event"
)

// StatRecord is one league-leader entry for a hitting or pitching category.
type StatRecord struct {
	Year                  int          `json:"year"`
	Rank                  *int         `json:"rank"`
	PlayerName            string       `json:"player_name"`
	Team                  string       `json:"team"`
	StatCategory          StatCategory `json:"stat_category"`
	StatValue             float64      `json:"stat_value"`
	QualityScore          float64      `json:"quality_score"`
	QualityLevel          QualityLevel `json:"quality_level"`
	TeamStandardized      bool         `json:"team_standardized"`
	StatCategoryCorrected bool         `json:"stat_category_corrected"`
}

// RecordID returns the audit key used by quality issues for this record.
func (r StatRecord) RecordID(d Dataset) string {
	return fmt.Sprintf("%s:%d:%s:%s", d, r.Year, r.PlayerName, r.StatCategory)
}

// StandingsRecord is a team's season won-lost line.
type StandingsRecord struct {
	Year     int     `json:"year"`
	TeamName string  `json:"team_name"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinPct   float64 `json:"win_pct"`
}

// RecordID returns the audit key used by quality issues for this record.
func (r StandingsRecord) RecordID() string {
	return fmt.Sprintf("%s:%d:%s", StandingsDataset, r.Year, r.TeamName)
}

// EventRecord is a notable event described in page prose.
type EventRecord struct {
	Year         int       `json:"year"`
	Description  string    `json:"description"`
	EventType    EventType `json:"event_type"`
	Participants []string  `json:"participants,omitempty"`
}

// RecordID returns the audit key used by quality issues for this record.
func (r EventRecord) RecordID() string {
	desc := r.Description
	if runes := []rune(desc); len(runes) > 40 {
		desc = string(runes[:40])
	}
	return fmt.Sprintf("%s:%d:%s", EventsDataset, r.Year, desc)
}

// QualityIssue is one entry of the append-only quality audit trail.
type QualityIssue struct {
	RecordID     string    `json:"record_id"`
	Field        string    `json:"field"`
	IssueType    IssueType `json:"issue_type"`
	Description  string    `json:"description"`
	Severity     Severity  `json:"severity"`
	SuggestedFix string    `json:"suggested_fix,omitempty"`
}

// Batch holds the records of the four datasets for one page or one run.
type Batch struct {
	Hitting   []StatRecord      `json:"hitting_leaders"`
	Pitching  []StatRecord      `json:"pitching_leaders"`
	Standings []StandingsRecord `json:"team_standings"`
	Events    []EventRecord     `json:"notable_events"`
}

// Counts returns the number of records per dataset.
func (b Batch) Counts() map[Dataset]int {
	return map[Dataset]int{
		HittingDataset:   len(b.Hitting),
		PitchingDataset:  len(b.Pitching),
		StandingsDataset: len(b.Standings),
		EventsDataset:    len(b.Events),
	}
}

// Len returns the total number of records in the batch.
func (b Batch) Len() int {
	return len(b.Hitting) + len(b.Pitching) + len(b.Standings) + len(b.Events)
}

// AllRuns selects issues across every run instead of a single one.
const AllRuns int64 = -1

// RunRecord is a row from the scrape_runs table.
type RunRecord struct {
	RunID     int64          `json:"run_id"`
	RunUUID   string         `json:"run_uuid"`
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Years     string         `json:"years"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// LeaderFilter narrows leader queries.
type LeaderFilter struct {
	Dataset  Dataset
	Category StatCategory
	Year     int
	Team     string
	Limit    int
}

// EventFilter narrows event queries.
type EventFilter struct {
	Year      int
	EventType EventType
	Limit     int
}

// LeaderComparison pairs the home run leader and ERA leader of a season.
type LeaderComparison struct {
	Year          int     `json:"year"`
	HRLeader      string  `json:"hr_leader"`
	HomeRuns      float64 `json:"home_runs"`
	ERALeader     string  `json:"era_leader"`
	ERA           float64 `json:"era"`
	HRLeaderTeam  string  `json:"hr_leader_team"`
	ERALeaderTeam string  `json:"era_leader_team"`
}

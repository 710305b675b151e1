// Package schema has the record models, domain constants and lookup tables shared by every part of almanac.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the store and page cache.
	DatabaseBackend string

	// TableKind represents the domain entity encoded by a markup table.
	TableKind string

	// QualityLevel represents the confidence band derived from a quality score.
	QualityLevel string

	// Severity represents how serious a quality issue is.
	Severity string

	// IssueType represents the kind of defect recorded in the quality log.
	IssueType string

	// Dataset represents one of the output streams of a scrape run.
	Dataset string

	// StatFamily groups stat categories into hitting and pitching.
	StatFamily string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All table kinds produced by the markup classifier.
const (
	HittingTable   TableKind = "hitting"
	PitchingTable  TableKind = "pitching"
	StandingsTable TableKind = "standings"
	UnknownTable   TableKind = "unknown"
)

// All quality levels, from most to least trusted.
const (
	HighQuality    QualityLevel = "high"
	MediumQuality  QualityLevel = "medium"
	LowQuality     QualityLevel = "low"
	InvalidQuality QualityLevel = "invalid"
)

// All issue severities.
const (
	SeverityHigh    Severity = "high"
	SeverityMedium  Severity = "medium"
	SeverityLow     Severity = "low"
	SeverityInvalid Severity = "invalid"
)

// All issue types written to the quality log.
const (
	IssueFieldConfusion    IssueType = "field_confusion"
	IssueTeamRecord        IssueType = "team_record"
	IssueOutOfRange        IssueType = "out_of_range"
	IssueCategoryCorrected IssueType = "category_corrected"
	IssueSuspiciousValue   IssueType = "suspicious_value"
	IssueInvalidCategory   IssueType = "invalid_category"
	IssueMissingValue      IssueType = "missing_value"
	IssueShortName         IssueType = "short_name"
	IssueLowQuality        IssueType = "low_quality"
	IssueSeasonLength      IssueType = "season_length"
	IssueDuplicateRecord   IssueType = "duplicate_record"
	IssueTeamStandardized  IssueType = "team_standardized"
)

// All datasets emitted by a scrape run.
const (
	HittingDataset   Dataset = "hitting_leaders"
	PitchingDataset  Dataset = "pitching_leaders"
	StandingsDataset Dataset = "team_standings"
	EventsDataset    Dataset = "notable_events"
)

// Stat families.
const (
	HittingFamily  StatFamily = "hitting"
	PitchingFamily StatFamily = "pitching"
)

// AllDatasets lists the datasets in the order they are reported.
var AllDatasets = []Dataset{HittingDataset, PitchingDataset, StandingsDataset, EventsDataset}

// AllQualityLevels lists the quality levels from best to worst.
var AllQualityLevels = []QualityLevel{HighQuality, MediumQuality, LowQuality, InvalidQuality}

// AllSeverities lists the severities from most to least serious.
var AllSeverities = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInvalid}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDatasets lists all valid datasets.
var ValidDatasets = map[Dataset]struct{}{
	HittingDataset:   {},
	PitchingDataset:  {},
	StandingsDataset: {},
	EventsDataset:    {},
}

// Family returns the stat family of a leader dataset.
func (d Dataset) Family() (StatFamily, bool) {
	switch d {
	case HittingDataset:
		return HittingFamily, true
	case PitchingDataset:
		return PitchingFamily, true
	default:
		return "", false
	}
}

// Dataset returns the leader dataset that stores records of this family.
func (f StatFamily) Dataset() Dataset {
	if f == PitchingFamily {
		return PitchingDataset
	}
	return HittingDataset
}

// LevelForScore maps a 0-100 quality score to its quality level.
func LevelForScore(score float64) QualityLevel {
	switch {
	case score >= 90:
		return HighQuality
	case score >= 70:
		return MediumQuality
	case score >= 50:
		return LowQuality
	default:
		return InvalidQuality
	}
}

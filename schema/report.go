package schema

// DatasetSummary describes what cleaning did to one dataset.
type DatasetSummary struct {
	Dataset             Dataset              `json:"dataset"`
	OriginalRows        int                  `json:"original_rows"`
	CleanedRows         int                  `json:"cleaned_rows"`
	RetentionRate       float64              `json:"retention_rate"`
	RecordsRemoved      int                  `json:"records_removed"`
	QualityDistribution map[QualityLevel]int `json:"quality_distribution,omitempty"`
	UniqueNames         int                  `json:"unique_names"`
	YearRange           string               `json:"year_range"`
	Categories          []string             `json:"categories,omitempty"`
}

// QualityReport aggregates the quality issues and dataset summaries of a run.
type QualityReport struct {
	Datasets         []DatasetSummary  `json:"datasets"`
	TotalIssues      int               `json:"total_issues"`
	IssuesBySeverity map[Severity]int  `json:"issues_by_severity"`
	IssuesByType     map[IssueType]int `json:"issues_by_type"`
	IssuesByField    map[string]int    `json:"issues_by_field"`
}

// QualityLevelCount is one row of the quality summary query.
type QualityLevelCount struct {
	Dataset      Dataset      `json:"dataset"`
	QualityLevel QualityLevel `json:"quality_level"`
	Records      int          `json:"records"`
	AvgScore     float64      `json:"avg_score"`
}

// TableInspection describes how one markup table of a page was classified and what it yielded.
type TableInspection struct {
	Index   int       `json:"index"`
	Kind    TableKind `json:"kind"`
	Rows    int       `json:"rows"`
	Records int       `json:"records"`
	Misses  int       `json:"misses"`
	Context string    `json:"context"`
}

// PageInspection is the dry-run view of one season page.
type PageInspection struct {
	Source     string            `json:"source"`
	Year       int               `json:"year"`
	Title      string            `json:"title"`
	Tables     []TableInspection `json:"tables"`
	TextBlocks int               `json:"text_blocks"`
	Batch      Batch             `json:"batch"`
}

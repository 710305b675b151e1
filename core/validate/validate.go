// Package validate repairs, scores and filters extracted records, and keeps the
// quality audit trail of everything it changed or dropped.
package validate

import (
	"log/slog"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// Score deductions.
const (
	startScore      = 100.0
	unknownTeamCost = 25.0
	shortNameCost   = 15.0
	hardRangeCost   = 50.0
	softOutlierCost = 20.0
)

const (
	shortNameScored = 5 // names shorter than this lose points
	minNameLength   = 3 // names shorter than this are rejected
)

// Field names recorded on quality issues.
const (
	issueFieldName   = "player_name"
	issueFieldTeam   = "team"
	issueFieldValue  = "stat_value"
	issueFieldCat    = "stat_category"
	issueFieldRecord = "record"
)

// Validator runs the repair state machine over batches of records. Issues accumulate
// across calls until Reset. A Validator is not safe for concurrent use.
type Validator struct {
	logger *slog.Logger
	issues []schema.QualityIssue
}

// New returns an empty Validator.
func New(logger *slog.Logger) *Validator {
	return &Validator{logger: contract.OrDiscard(logger)}
}

// Issues returns a copy of the issues recorded so far, in the order they were raised.
func (v *Validator) Issues() []schema.QualityIssue {
	out := make([]schema.QualityIssue, len(v.issues))
	copy(out, v.issues)
	return out
}

// Reset clears the issue log.
func (v *Validator) Reset() {
	v.issues = nil
}

// Batch validates every dataset of a batch.
func (v *Validator) Batch(b schema.Batch) schema.Batch {
	return schema.Batch{
		Hitting:   v.ValidateStats(schema.HittingDataset, b.Hitting),
		Pitching:  v.ValidateStats(schema.PitchingDataset, b.Pitching),
		Standings: v.ValidateStandings(b.Standings),
		Events:    v.ValidateEvents(b.Events),
	}
}

func (v *Validator) raise(issue schema.QualityIssue) {
	v.logger.Debug("quality issue",
		"record", issue.RecordID,
		"type", issue.IssueType,
		"severity", issue.Severity,
		"description", issue.Description)
	v.issues = append(v.issues, issue)
}

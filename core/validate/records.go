package validate

import (
	"fmt"

	"github.com/huangsam/almanac/core/events"
	"github.com/huangsam/almanac/schema"
)

// ValidateStandings dedupes on (year, team), recomputes win percentage and drops
// lines whose games played do not fit the season length.
func (v *Validator) ValidateStandings(records []schema.StandingsRecord) []schema.StandingsRecord {
	type key struct {
		year int
		team string
	}
	seen := make(map[key]struct{}, len(records))
	var out []schema.StandingsRecord

	for _, rec := range records {
		rec.TeamName = schema.CollapseSpace(rec.TeamName)
		k := key{rec.Year, rec.TeamName}
		if _, dup := seen[k]; dup {
			v.raise(schema.QualityIssue{
				RecordID:    rec.RecordID(),
				Field:       issueFieldRecord,
				IssueType:   schema.IssueDuplicateRecord,
				Description: "duplicate standings line",
				Severity:    schema.SeverityLow,
			})
			continue
		}
		seen[k] = struct{}{}

		if games := rec.Wins + rec.Losses; !schema.SeasonLengthPlausible(rec.Year, games) {
			v.raise(schema.QualityIssue{
				RecordID:  rec.RecordID(),
				Field:     "wins",
				IssueType: schema.IssueSeasonLength,
				Description: fmt.Sprintf("%d games played, expected about %d",
					games, schema.ExpectedSeasonGames(rec.Year)),
				Severity: schema.SeverityHigh,
			})
			continue
		}
		rec.WinPct = schema.WinPct(rec.Wins, rec.Losses)
		out = append(out, rec)
	}
	return out
}

// ValidateEvents dedupes on (year, description), recomputes event types and cleans
// participant lists. Descriptions shorter than the minimum are dropped.
func (v *Validator) ValidateEvents(records []schema.EventRecord) []schema.EventRecord {
	type key struct {
		year int
		desc string
	}
	seen := make(map[key]struct{}, len(records))
	var out []schema.EventRecord

	for _, rec := range records {
		rec.Description = events.Clean(rec.Description)
		if len(rec.Description) < events.MinDescription {
			v.raise(schema.QualityIssue{
				RecordID:    rec.RecordID(),
				Field:       "description",
				IssueType:   schema.IssueMissingValue,
				Description: fmt.Sprintf("description has %d characters", len(rec.Description)),
				Severity:    schema.SeverityLow,
			})
			continue
		}
		k := key{rec.Year, rec.Description}
		if _, dup := seen[k]; dup {
			v.raise(schema.QualityIssue{
				RecordID:    rec.RecordID(),
				Field:       issueFieldRecord,
				IssueType:   schema.IssueDuplicateRecord,
				Description: "duplicate event description",
				Severity:    schema.SeverityLow,
			})
			continue
		}
		seen[k] = struct{}{}

		rec.EventType = events.Classify(rec.Description)
		rec.Participants = events.CleanParticipants(rec.Participants)
		out = append(out, rec)
	}
	return out
}

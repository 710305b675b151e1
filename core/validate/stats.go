package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/almanac/schema"
)

// nameCutset is removed from both ends of a player name.
const nameCutset = "\"', \t\r\n"

// ValidateStats runs each record of a hitting or pitching dataset through intake,
// field-order repair, team suppression, the range gate, scoring and name hygiene.
// Records rejected at any step are dropped; the rest come back in input order.
func (v *Validator) ValidateStats(dataset schema.Dataset, records []schema.StatRecord) []schema.StatRecord {
	family, ok := dataset.Family()
	if !ok {
		return nil
	}
	var out []schema.StatRecord
	for _, rec := range records {
		if kept, ok := v.validateStat(dataset, family, rec); ok {
			out = append(out, kept)
		}
	}
	return out
}

func (v *Validator) validateStat(dataset schema.Dataset, family schema.StatFamily, rec schema.StatRecord) (schema.StatRecord, bool) {
	rec.PlayerName = strings.Trim(rec.PlayerName, nameCutset)
	rec.Team = schema.CollapseSpace(rec.Team)

	if !v.intake(dataset, rec) {
		return rec, false
	}
	rec, ok := v.repairFieldOrder(dataset, family, rec)
	if !ok {
		return rec, false
	}
	rec, ok = v.suppressTeamRecord(dataset, rec)
	if !ok {
		return rec, false
	}
	rec, soft, ok := v.rangeGate(dataset, family, rec)
	if !ok {
		return rec, false
	}
	rec = score(rec, soft)
	if rec.QualityLevel == schema.InvalidQuality {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldRecord,
			IssueType:   schema.IssueLowQuality,
			Description: fmt.Sprintf("quality score %.0f is below the acceptance threshold", rec.QualityScore),
			Severity:    schema.SeverityInvalid,
		})
		return rec, false
	}
	if len([]rune(rec.PlayerName)) < minNameLength {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldName,
			IssueType:   schema.IssueShortName,
			Description: fmt.Sprintf("player name %q is too short", rec.PlayerName),
			Severity:    schema.SeverityHigh,
		})
		return rec, false
	}
	return rec, true
}

func (v *Validator) intake(dataset schema.Dataset, rec schema.StatRecord) bool {
	switch {
	case rec.PlayerName == "":
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldName,
			IssueType:   schema.IssueMissingValue,
			Description: "player name is missing",
			Severity:    schema.SeverityHigh,
		})
		return false
	case rec.StatValue <= 0:
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldValue,
			IssueType:   schema.IssueMissingValue,
			Description: fmt.Sprintf("stat value %v is not positive", rec.StatValue),
			Severity:    schema.SeverityHigh,
		})
		return false
	}
	return true
}

// repairFieldOrder undoes the one-column shift where the category label landed in the
// name cell and the player name in the team cell.
func (v *Validator) repairFieldOrder(dataset schema.Dataset, family schema.StatFamily, rec schema.StatRecord) (schema.StatRecord, bool) {
	label, transposed := schema.LookupCategory(rec.PlayerName)
	if !transposed {
		return rec, true
	}
	if rec.Team == "" {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldName,
			IssueType:   schema.IssueFieldConfusion,
			Description: fmt.Sprintf("player name %q is a stat category and no team cell holds the player", rec.PlayerName),
			Severity:    schema.SeverityHigh,
		})
		return rec, false
	}

	id := rec.RecordID(dataset)
	rec.PlayerName = strings.Trim(rec.Team, nameCutset)
	rec.Team = schema.UnknownTeam
	if rec.StatCategory.IsPlaceholder() {
		if f, _ := label.Family(); f == family {
			rec.StatCategory = label
		}
	}
	v.raise(schema.QualityIssue{
		RecordID:     id,
		Field:        issueFieldName,
		IssueType:    schema.IssueFieldConfusion,
		Description:  fmt.Sprintf("stat category %q found in the name field", label),
		Severity:     schema.SeverityLow,
		SuggestedFix: fmt.Sprintf("player_name=%q team=%q", rec.PlayerName, rec.Team),
	})
	return rec, true
}

func (v *Validator) suppressTeamRecord(dataset schema.Dataset, rec schema.StatRecord) (schema.StatRecord, bool) {
	if schema.ContainsTeamKeyword(rec.PlayerName) {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldName,
			IssueType:   schema.IssueTeamRecord,
			Description: fmt.Sprintf("%q is a team aggregate, not a player", rec.PlayerName),
			Severity:    schema.SeverityMedium,
		})
		return rec, false
	}

	if team, changed := schema.StandardizeTeam(rec.Team, rec.Year); changed && team != rec.Team {
		v.raise(schema.QualityIssue{
			RecordID:     rec.RecordID(dataset),
			Field:        issueFieldTeam,
			IssueType:    schema.IssueTeamStandardized,
			Description:  fmt.Sprintf("city %q mapped to franchise for %d", rec.Team, rec.Year),
			Severity:     schema.SeverityLow,
			SuggestedFix: team,
		})
		rec.Team = team
		rec.TeamStandardized = true
	}
	return rec, true
}

// rangeGate checks the value against its category range and relabels it when exactly
// one commonly confused category fits. The second result reports a soft outlier.
func (v *Validator) rangeGate(dataset schema.Dataset, family schema.StatFamily, rec schema.StatRecord) (schema.StatRecord, bool, bool) {
	r, known := rec.StatCategory.Range()
	f, _ := rec.StatCategory.Family()
	if rec.StatCategory.IsPlaceholder() || !known || f != family {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldCat,
			IssueType:   schema.IssueInvalidCategory,
			Description: fmt.Sprintf("category %q is not a %s category", rec.StatCategory, family),
			Severity:    schema.SeverityHigh,
		})
		return rec, false, false
	}

	if !r.Contains(rec.StatValue) {
		fits := Alternates(family, rec.StatCategory, rec.StatValue)
		if len(fits) != 1 {
			audit := score(rec, false).QualityScore - hardRangeCost
			v.raise(schema.QualityIssue{
				RecordID:  rec.RecordID(dataset),
				Field:     issueFieldValue,
				IssueType: schema.IssueOutOfRange,
				Description: fmt.Sprintf("%v is outside %s range [%v, %v] with %d alternate categories fitting (score %.0f)",
					rec.StatValue, rec.StatCategory, r.Min, r.Max, len(fits), audit),
				Severity: schema.SeverityHigh,
			})
			return rec, false, false
		}
		v.raise(schema.QualityIssue{
			RecordID:     rec.RecordID(dataset),
			Field:        issueFieldCat,
			IssueType:    schema.IssueCategoryCorrected,
			Description:  fmt.Sprintf("%v is outside %s range, relabeled as %s", rec.StatValue, rec.StatCategory, fits[0]),
			Severity:     schema.SeverityLow,
			SuggestedFix: string(fits[0]),
		})
		rec.StatCategory = fits[0]
		rec.StatCategoryCorrected = true
		r, _ = rec.StatCategory.Range()
	}

	soft := rec.StatValue > r.TypicalMax
	if soft {
		v.raise(schema.QualityIssue{
			RecordID:    rec.RecordID(dataset),
			Field:       issueFieldValue,
			IssueType:   schema.IssueSuspiciousValue,
			Description: fmt.Sprintf("%v exceeds the typical %s maximum of %v", rec.StatValue, rec.StatCategory, r.TypicalMax),
			Severity:    schema.SeverityMedium,
		})
	}
	return rec, soft, true
}

// Alternates returns the categories in the family's confusion set, other than current,
// whose range contains value. A category outside the confusion set has no alternates.
func Alternates(family schema.StatFamily, current schema.StatCategory, value float64) []schema.StatCategory {
	set := schema.ConfusionSets[family]
	if !slices.Contains(set, current) {
		return nil
	}
	var fits []schema.StatCategory
	for _, c := range set {
		if c == current {
			continue
		}
		if r, ok := c.Range(); ok && r.Contains(value) {
			fits = append(fits, c)
		}
	}
	return fits
}

// score recomputes the quality score and level from scratch.
func score(rec schema.StatRecord, softOutlier bool) schema.StatRecord {
	s := startScore
	if rec.Team == "" || rec.Team == schema.UnknownTeam {
		s -= unknownTeamCost
	}
	if len([]rune(rec.PlayerName)) < shortNameScored {
		s -= shortNameCost
	}
	if softOutlier {
		s -= softOutlierCost
	}
	rec.QualityScore = s
	rec.QualityLevel = schema.LevelForScore(s)
	return rec
}

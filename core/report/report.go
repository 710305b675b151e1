// Package report aggregates dataset summaries and quality issues into a QualityReport.
package report

import (
	"fmt"
	"slices"

	"github.com/huangsam/almanac/schema"
)

// Build aggregates issues and per-dataset summaries. It never mutates its inputs.
func Build(issues []schema.QualityIssue, summaries []schema.DatasetSummary) schema.QualityReport {
	rep := schema.QualityReport{
		Datasets:         slices.Clone(summaries),
		TotalIssues:      len(issues),
		IssuesBySeverity: make(map[schema.Severity]int),
		IssuesByType:     make(map[schema.IssueType]int),
		IssuesByField:    make(map[string]int),
	}
	for _, is := range issues {
		rep.IssuesBySeverity[is.Severity]++
		rep.IssuesByType[is.IssueType]++
		rep.IssuesByField[is.Field]++
	}
	return rep
}

// RetentionRate returns cleaned/original as a percentage with one decimal.
// An empty original dataset retains nothing.
func RetentionRate(original, cleaned int) float64 {
	if original == 0 {
		return 0
	}
	return schema.RoundTo(float64(cleaned)/float64(original)*100, 1)
}

func newSummary(d schema.Dataset, original, cleaned int) schema.DatasetSummary {
	return schema.DatasetSummary{
		Dataset:        d,
		OriginalRows:   original,
		CleanedRows:    cleaned,
		RetentionRate:  RetentionRate(original, cleaned),
		RecordsRemoved: original - cleaned,
		YearRange:      "N/A",
	}
}

// SummarizeStats summarizes a hitting or pitching dataset before and after cleaning.
func SummarizeStats(d schema.Dataset, original, cleaned []schema.StatRecord) schema.DatasetSummary {
	s := newSummary(d, len(original), len(cleaned))
	s.QualityDistribution = make(map[schema.QualityLevel]int)

	names := make(map[string]struct{})
	cats := make(map[string]struct{})
	years := make([]int, 0, len(cleaned))
	for _, r := range cleaned {
		s.QualityDistribution[r.QualityLevel]++
		names[r.PlayerName] = struct{}{}
		cats[string(r.StatCategory)] = struct{}{}
		years = append(years, r.Year)
	}
	s.UniqueNames = len(names)
	s.YearRange = yearRange(years)
	s.Categories = sortedKeys(cats)
	return s
}

// SummarizeStandings summarizes the standings dataset. Unique names counts teams.
func SummarizeStandings(original, cleaned []schema.StandingsRecord) schema.DatasetSummary {
	s := newSummary(schema.StandingsDataset, len(original), len(cleaned))
	teams := make(map[string]struct{})
	years := make([]int, 0, len(cleaned))
	for _, r := range cleaned {
		teams[r.TeamName] = struct{}{}
		years = append(years, r.Year)
	}
	s.UniqueNames = len(teams)
	s.YearRange = yearRange(years)
	return s
}

// SummarizeEvents summarizes the events dataset. Categories lists the event types.
func SummarizeEvents(original, cleaned []schema.EventRecord) schema.DatasetSummary {
	s := newSummary(schema.EventsDataset, len(original), len(cleaned))
	people := make(map[string]struct{})
	types := make(map[string]struct{})
	years := make([]int, 0, len(cleaned))
	for _, r := range cleaned {
		for _, p := range r.Participants {
			people[p] = struct{}{}
		}
		types[string(r.EventType)] = struct{}{}
		years = append(years, r.Year)
	}
	s.UniqueNames = len(people)
	s.YearRange = yearRange(years)
	s.Categories = sortedKeys(types)
	return s
}

// Summarize produces the four dataset summaries of a run in display order.
func Summarize(original, cleaned schema.Batch) []schema.DatasetSummary {
	return []schema.DatasetSummary{
		SummarizeStats(schema.HittingDataset, original.Hitting, cleaned.Hitting),
		SummarizeStats(schema.PitchingDataset, original.Pitching, cleaned.Pitching),
		SummarizeStandings(original.Standings, cleaned.Standings),
		SummarizeEvents(original.Events, cleaned.Events),
	}
}

func yearRange(years []int) string {
	if len(years) == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d - %d", slices.Min(years), slices.Max(years))
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

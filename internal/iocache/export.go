package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/parquet"
	"github.com/huangsam/almanac/schema"
)

// ExportRecords writes every stored dataset, the quality log and the run history to
// Parquet files named <prefix>.<table>.parquet. It returns the written paths.
func ExportRecords(w io.Writer, store contract.RecordStore, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return nil, errors.New("no scrape runs found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	hitting, err := store.QueryLeaders(schema.LeaderFilter{Dataset: schema.HittingDataset})
	if err != nil {
		return nil, err
	}
	pitching, err := store.QueryLeaders(schema.LeaderFilter{Dataset: schema.PitchingDataset})
	if err != nil {
		return nil, err
	}
	standings, err := store.QueryStandings(0, 0)
	if err != nil {
		return nil, err
	}
	events, err := store.QueryEvents(schema.EventFilter{})
	if err != nil {
		return nil, err
	}
	issues, err := store.QueryIssues(schema.AllRuns, 0)
	if err != nil {
		return nil, err
	}
	runs, err := store.QueryRuns(0)
	if err != nil {
		return nil, err
	}

	leaders := append(parquet.ConvertLeaders(schema.HittingDataset, hitting),
		parquet.ConvertLeaders(schema.PitchingDataset, pitching)...)

	exports := []struct {
		table string
		rows  int
		write func(path string) error
	}{
		{"leaders", len(leaders), func(p string) error { return parquet.WriteFile(leaders, p) }},
		{standingsTable, len(standings), func(p string) error { return parquet.WriteFile(parquet.ConvertStandings(standings), p) }},
		{eventsTable, len(events), func(p string) error { return parquet.WriteFile(parquet.ConvertEvents(events), p) }},
		{qualityTable, len(issues), func(p string) error { return parquet.WriteFile(parquet.ConvertIssues(issues), p) }},
		{runsTable, len(runs), func(p string) error { return parquet.WriteFile(parquet.ConvertRuns(runs), p) }},
	}

	var paths []string
	for _, e := range exports {
		path := fmt.Sprintf("%s.%s.parquet", prefix, e.table)
		if err := e.write(path); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", e.table, err)
		}
		_, _ = fmt.Fprintf(w, "Exported %d rows to: %s\n", e.rows, path)
		paths = append(paths, path)
	}
	return paths, nil
}

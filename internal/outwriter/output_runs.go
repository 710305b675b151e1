package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/parquet"
	"github.com/huangsam/almanac/schema"
)

// WriteIssues prints entries of the quality log.
func WriteIssues(issues []schema.QualityIssue, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, issues)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"record_id", "field", "issue_type", "severity", "description", "suggested_fix"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, is := range issues {
					row := []string{is.RecordID, is.Field, string(is.IssueType), string(is.Severity), is.Description, is.SuggestedFix}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg, parquet.ConvertIssues(issues))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Severity", "Type", "Field", "Record", "Description"})
			width := GetMaxTextWidth(cfg, 60)
			var data [][]string
			for _, is := range issues {
				data = append(data, []string{
					contract.GetSeverityLabel(is.Severity),
					string(is.IssueType),
					is.Field,
					contract.TruncateText(is.RecordID, width),
					contract.TruncateText(is.Description, width),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d quality issues\n", len(issues))
			return err
		}, "Wrote table")
	}
}

// WriteRuns prints scrape run history.
func WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"run_id", "run_uuid", "start_time", "end_time", "years", "hitting", "pitching", "standings", "events"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range runs {
					row := []string{
						strconv.FormatInt(r.RunID, 10),
						r.RunUUID,
						formatTime(&r.StartTime),
						formatTime(r.EndTime),
						r.Years,
					}
					for _, d := range schema.AllDatasets {
						row = append(row, strconv.Itoa(r.Counts[string(d)]))
					}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg, parquet.ConvertRuns(runs))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Run", "Started", "Ended", "Years", "Hitting", "Pitching", "Standings", "Events"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, r := range runs {
				row := []string{
					strconv.FormatInt(r.RunID, 10),
					formatTime(&r.StartTime),
					formatTime(r.EndTime),
					contract.TruncateText(r.Years, GetMaxTextWidth(cfg, 90)),
				}
				for _, d := range schema.AllDatasets {
					row = append(row, strconv.Itoa(r.Counts[string(d)]))
				}
				data = append(data, row)
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

// WriteComparison prints each season's home run leader against its ERA leader.
func WriteComparison(rows []schema.LeaderComparison, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"year", "hr_leader", "hr_leader_team", "home_runs", "era_leader", "era_leader_team", "era"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, c := range rows {
					row := []string{
						strconv.Itoa(c.Year),
						c.HRLeader, c.HRLeaderTeam, strconv.FormatFloat(c.HomeRuns, 'f', -1, 64),
						c.ERALeader, c.ERALeaderTeam, strconv.FormatFloat(c.ERA, 'f', 2, 64),
					}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("the leader comparison")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Year", "HR Leader", "HR", "ERA Leader", "ERA"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, c := range rows {
				data = append(data, []string{
					strconv.Itoa(c.Year),
					fmt.Sprintf("%s (%s)", c.HRLeader, c.HRLeaderTeam),
					strconv.FormatFloat(c.HomeRuns, 'f', -1, 64),
					fmt.Sprintf("%s (%s)", c.ERALeader, c.ERALeaderTeam),
					strconv.FormatFloat(c.ERA, 'f', 2, 64),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

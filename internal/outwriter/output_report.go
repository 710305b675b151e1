package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// WriteReport prints the quality report of a finished run.
func WriteReport(rep schema.QualityReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rep)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, rep, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("the quality report")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeReportTable(w, rep, fmtFloat, intFmt); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Run completed in %v. Record store: %s\n", duration.Round(time.Millisecond), cfg.StoreBackend)
			return err
		}, "Wrote table")
	}
}

// writeReportTable renders the dataset summaries followed by the issue breakdowns.
func writeReportTable(w io.Writer, rep schema.QualityReport, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dataset", "Original", "Cleaned", "Retention", "High", "Medium", "Low", "Names", "Years"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range rep.Datasets {
		data = append(data, []string{
			string(d.Dataset),
			fmt.Sprintf(intFmt, d.OriginalRows),
			fmt.Sprintf(intFmt, d.CleanedRows),
			fmtFloat(d.RetentionRate) + "%",
			levelCount(d, schema.HighQuality),
			levelCount(d, schema.MediumQuality),
			levelCount(d, schema.LowQuality),
			fmt.Sprintf(intFmt, d.UniqueNames),
			d.YearRange,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Quality issues: %d\n", rep.TotalIssues); err != nil {
		return err
	}
	if rep.TotalIssues == 0 {
		return nil
	}

	var bySeverity []string
	for _, s := range schema.AllSeverities {
		if n := rep.IssuesBySeverity[s]; n > 0 {
			bySeverity = append(bySeverity, fmt.Sprintf("%s %d", contract.GetSeverityLabel(s), n))
		}
	}
	if _, err := fmt.Fprintf(w, "  by severity: %s\n", strings.Join(bySeverity, ", ")); err != nil {
		return err
	}
	for _, e := range sortedCounts(rep.IssuesByType) {
		if _, err := fmt.Fprintf(w, "  %-20s %d\n", e.Key, e.Count); err != nil {
			return err
		}
	}
	return nil
}

// levelCount renders one quality level of a stat summary; other datasets carry no levels.
func levelCount(d schema.DatasetSummary, level schema.QualityLevel) string {
	if d.QualityDistribution == nil {
		return "-"
	}
	return strconv.Itoa(d.QualityDistribution[level])
}

// writeReportCSV writes one row per dataset. Issue counts go to a second section.
func writeReportCSV(w io.Writer, rep schema.QualityReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"dataset", "original_rows", "cleaned_rows", "retention_rate", "records_removed",
		"high", "medium", "low", "invalid", "unique_names", "year_range"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range rep.Datasets {
			row := []string{
				string(d.Dataset),
				fmt.Sprintf(intFmt, d.OriginalRows),
				fmt.Sprintf(intFmt, d.CleanedRows),
				fmtFloat(d.RetentionRate),
				fmt.Sprintf(intFmt, d.RecordsRemoved),
			}
			for _, level := range schema.AllQualityLevels {
				row = append(row, strconv.Itoa(d.QualityDistribution[level]))
			}
			row = append(row, fmt.Sprintf(intFmt, d.UniqueNames), d.YearRange)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// qualitySummary is the JSON shape of the stored quality view.
type qualitySummary struct {
	Levels []schema.QualityLevelCount `json:"quality_levels"`
	Report schema.QualityReport       `json:"report"`
}

// WriteQualitySummary prints the stored quality distribution next to the issue
// breakdown of a run.
func WriteQualitySummary(levels []schema.QualityLevelCount, rep schema.QualityReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, qualitySummary{Levels: levels, Report: rep})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"dataset", "quality_level", "records", "avg_score"}, func(cw *csv.Writer) error {
				for _, l := range levels {
					row := []string{string(l.Dataset), string(l.QualityLevel), fmt.Sprintf(intFmt, l.Records), fmtFloat(l.AvgScore)}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("the quality summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Dataset", "Quality", "Records", "Avg Score"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, l := range levels {
				data = append(data, []string{
					string(l.Dataset),
					contract.GetColorLabel(l.QualityLevel),
					fmt.Sprintf(intFmt, l.Records),
					fmtFloat(l.AvgScore),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Quality issues: %d\n", rep.TotalIssues); err != nil {
				return err
			}
			for _, e := range sortedCounts(rep.IssuesByType) {
				if _, err := fmt.Fprintf(w, "  %-20s %d\n", e.Key, e.Count); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote table")
	}
}

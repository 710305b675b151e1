package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/parquet"
	"github.com/huangsam/almanac/schema"
)

// WriteLeaders prints league leaders of one dataset.
func WriteLeaders(d schema.Dataset, records []schema.StatRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeadersCSV(w, d, records, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg, parquet.ConvertLeaders(d, records))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeadersTable(w, d, records, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeLeadersTable(w io.Writer, d schema.Dataset, records []schema.StatRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Rank", "Player", "Team", "Category", "Value", "Score", "Quality"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTextWidth(cfg, 70)
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.Itoa(r.Year),
			formatRank(r.Rank),
			contract.TruncateText(r.PlayerName, nameWidth),
			contract.TruncateText(r.Team, 24),
			string(r.StatCategory),
			statValue(r),
			fmtFloat(r.QualityScore),
			contract.GetColorLabel(r.QualityLevel),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d %s records\n", len(records), d)
	return err
}

// statValue renders averages with three places and ERA with two, as the almanac prints them.
func statValue(r schema.StatRecord) string {
	switch r.StatCategory {
	case schema.BattingAverage:
		return strings.TrimPrefix(strconv.FormatFloat(r.StatValue, 'f', 3, 64), "0")
	case schema.ERA:
		return strconv.FormatFloat(r.StatValue, 'f', 2, 64)
	default:
		return strconv.FormatFloat(r.StatValue, 'f', -1, 64)
	}
}

func writeLeadersCSV(w io.Writer, d schema.Dataset, records []schema.StatRecord, fmtFloat func(float64) string) error {
	header := []string{"dataset", "year", "rank", "player_name", "team", "stat_category", "stat_value",
		"quality_score", "quality_level", "team_standardized", "stat_category_corrected"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				string(d),
				strconv.Itoa(r.Year),
				formatRank(r.Rank),
				r.PlayerName,
				r.Team,
				string(r.StatCategory),
				strconv.FormatFloat(r.StatValue, 'f', -1, 64),
				fmtFloat(r.QualityScore),
				contract.GetPlainLabel(r.QualityLevel),
				strconv.FormatBool(r.TeamStandardized),
				strconv.FormatBool(r.StatCategoryCorrected),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteStandings prints team standings.
func WriteStandings(records []schema.StandingsRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"year", "team_name", "wins", "losses", "win_pct"}, func(cw *csv.Writer) error {
				for _, r := range records {
					row := []string{strconv.Itoa(r.Year), r.TeamName, strconv.Itoa(r.Wins), strconv.Itoa(r.Losses), winPct(r.WinPct)}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg, parquet.ConvertStandings(records))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Year", "Team", "W", "L", "Pct"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, r := range records {
				data = append(data, []string{strconv.Itoa(r.Year), r.TeamName, strconv.Itoa(r.Wins), strconv.Itoa(r.Losses), winPct(r.WinPct)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

// winPct renders a win percentage the way standings print it: ".714".
func winPct(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if v < 1 {
		return strings.TrimPrefix(s, "0")
	}
	return s
}

// WriteEvents prints notable events.
func WriteEvents(records []schema.EventRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"year", "event_type", "description", "participants"}, func(cw *csv.Writer) error {
				for _, r := range records {
					row := []string{strconv.Itoa(r.Year), string(r.EventType), r.Description, strings.Join(r.Participants, "|")}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg, parquet.ConvertEvents(records))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Year", "Type", "Description", "Participants"})
			descWidth := GetMaxTextWidth(cfg, 50)
			var data [][]string
			for _, r := range records {
				data = append(data, []string{
					strconv.Itoa(r.Year),
					string(r.EventType),
					contract.TruncateText(r.Description, descWidth),
					strings.Join(r.Participants, ", "),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

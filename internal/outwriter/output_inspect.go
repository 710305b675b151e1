package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// WriteInspection prints how each table of a page was classified and what it yielded.
func WriteInspection(ins schema.PageInspection, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ins)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"table", "kind", "rows", "records", "misses", "context"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, t := range ins.Tables {
					row := []string{strconv.Itoa(t.Index), string(t.Kind), strconv.Itoa(t.Rows),
						strconv.Itoa(t.Records), strconv.Itoa(t.Misses), t.Context}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported("page inspection")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInspectionTable(w, ins, cfg)
		}, "Wrote table")
	}
}

func writeInspectionTable(w io.Writer, ins schema.PageInspection, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s (%d): %s\n", ins.Title, ins.Year, ins.Source); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Kind", "Rows", "Records", "Misses", "Context"})
	width := GetMaxTextWidth(cfg, 45)
	var data [][]string
	for _, t := range ins.Tables {
		data = append(data, []string{
			strconv.Itoa(t.Index),
			string(t.Kind),
			strconv.Itoa(t.Rows),
			strconv.Itoa(t.Records),
			strconv.Itoa(t.Misses),
			contract.TruncateText(t.Context, width),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	b := ins.Batch
	_, err := fmt.Fprintf(w, "Raw records: %d hitting, %d pitching, %d standings, %d events from %d text blocks\n",
		len(b.Hitting), len(b.Pitching), len(b.Standings), len(b.Events), ins.TextBlocks)
	return err
}

// Package extract walks classified tables and turns rows into raw, unvalidated records.
package extract

import (
	"log/slog"
	"strings"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/markup"
	"github.com/huangsam/almanac/schema"
)

// Result holds the raw records pulled from one table.
type Result struct {
	Stats     []schema.StatRecord
	Standings []schema.StandingsRecord
	Misses    int // rows that yielded nothing
}

// Extractor turns table rows into records. It only logs; it never fails.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor that reports row-level misses at debug level.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: contract.OrDiscard(logger)}
}

// Extract dispatches on the table kind. Unknown tables yield an empty result.
func (e *Extractor) Extract(table markup.Table, kind schema.TableKind, year int) Result {
	var res Result
	context := table.ContextText()

	for i, row := range table.Rows {
		switch kind {
		case schema.HittingTable, schema.PitchingTable:
			family := schema.HittingFamily
			if kind == schema.PitchingTable {
				family = schema.PitchingFamily
			}
			rec, reason := StatRow(row, family, context, year)
			if reason != "" {
				res.Misses++
				e.miss(year, table.Index, i, kind, reason, row)
				continue
			}
			res.Stats = append(res.Stats, rec)
		case schema.StandingsTable:
			rec, reason := StandingsRow(row, year)
			if reason != "" {
				res.Misses++
				e.miss(year, table.Index, i, kind, reason, row)
				continue
			}
			res.Standings = append(res.Standings, rec)
		default:
			return res
		}
	}
	return res
}

func (e *Extractor) miss(year, table, row int, kind schema.TableKind, reason string, cells []string) {
	e.logger.Debug("row skipped",
		"year", year,
		"table", table,
		"row", row,
		"kind", kind,
		"reason", reason,
		"cells", strings.Join(cells, " | "),
	)
}

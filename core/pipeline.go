package core

import (
	"log/slog"

	"github.com/huangsam/almanac/core/classify"
	"github.com/huangsam/almanac/core/events"
	"github.com/huangsam/almanac/core/extract"
	"github.com/huangsam/almanac/core/report"
	"github.com/huangsam/almanac/core/validate"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/markup"
	"github.com/huangsam/almanac/internal/metrics"
	"github.com/huangsam/almanac/schema"
)

// Accumulator collects the raw batches of a run, one page at a time.
type Accumulator struct {
	batch schema.Batch
	years []int
}

// Add appends the raw records of one season page.
func (a *Accumulator) Add(year int, b schema.Batch) {
	a.years = append(a.years, year)
	a.batch.Hitting = append(a.batch.Hitting, b.Hitting...)
	a.batch.Pitching = append(a.batch.Pitching, b.Pitching...)
	a.batch.Standings = append(a.batch.Standings, b.Standings...)
	a.batch.Events = append(a.batch.Events, b.Events...)
}

// Batch returns everything accumulated so far.
func (a *Accumulator) Batch() schema.Batch {
	return a.batch
}

// Years returns the seasons added, in the order they were added.
func (a *Accumulator) Years() []int {
	return a.years
}

// Outcome is what cleaning an accumulated batch produced.
type Outcome struct {
	Raw     schema.Batch
	Cleaned schema.Batch
	Issues  []schema.QualityIssue
	Report  schema.QualityReport
}

// Pipeline runs the extraction and repair stages. It holds no per-run state.
type Pipeline struct {
	logger    *slog.Logger
	metrics   *metrics.Manager
	extractor *extract.Extractor
	events    *events.Extractor
}

// NewPipeline wires the stages with a shared logger. m may be nil.
func NewPipeline(logger *slog.Logger, m *metrics.Manager) *Pipeline {
	logger = contract.OrDiscard(logger)
	return &Pipeline{
		logger:    logger,
		metrics:   m,
		extractor: extract.New(logger),
		events:    events.New(logger),
	}
}

// ExtractPage classifies every table of a page, extracts raw records from the known
// kinds, and pulls notable events out of its prose.
func (p *Pipeline) ExtractPage(year int, page *markup.Page) (schema.Batch, []schema.TableInspection) {
	var batch schema.Batch
	tables := page.Tables()
	inspections := make([]schema.TableInspection, 0, len(tables))

	for _, t := range tables {
		kind := classify.Classify(t.Text(), t.ContextText())
		res := p.extractor.Extract(t, kind, year)

		switch kind {
		case schema.HittingTable:
			batch.Hitting = append(batch.Hitting, res.Stats...)
		case schema.PitchingTable:
			batch.Pitching = append(batch.Pitching, res.Stats...)
		case schema.StandingsTable:
			batch.Standings = append(batch.Standings, res.Standings...)
		}

		inspections = append(inspections, schema.TableInspection{
			Index:   t.Index,
			Kind:    kind,
			Rows:    len(t.Rows),
			Records: len(res.Stats) + len(res.Standings),
			Misses:  res.Misses,
			Context: contract.TruncateText(t.ContextText(), 80),
		})
	}

	batch.Events = p.events.Extract(year, page.TextBlocks())
	p.metrics.RecordExtracted(batch)
	p.logger.Info("page extracted",
		"year", year,
		"tables", len(tables),
		"hitting", len(batch.Hitting),
		"pitching", len(batch.Pitching),
		"standings", len(batch.Standings),
		"events", len(batch.Events))
	return batch, inspections
}

// Clean validates a raw batch once and builds its quality report.
func (p *Pipeline) Clean(raw schema.Batch) Outcome {
	v := validate.New(p.logger)
	cleaned := v.Batch(raw)
	issues := v.Issues()

	p.metrics.RecordCleaned(cleaned)
	p.metrics.RecordIssues(issues)
	p.logger.Info("batch cleaned", "raw", raw.Len(), "cleaned", cleaned.Len(), "issues", len(issues))

	return Outcome{
		Raw:     raw,
		Cleaned: cleaned,
		Issues:  issues,
		Report:  report.Build(issues, report.Summarize(raw, cleaned)),
	}
}

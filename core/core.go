// Package core runs the almanac pipeline: fetch season pages, extract raw records,
// accumulate them, validate once, report, and persist the run.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/fetch"
	"github.com/huangsam/almanac/internal/iocache"
	"github.com/huangsam/almanac/internal/markup"
	"github.com/huangsam/almanac/internal/metrics"
	"github.com/huangsam/almanac/internal/outwriter"
	"github.com/huangsam/almanac/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteScrape fetches every configured season, cleans the accumulated records,
// saves the run and prints its quality report.
func ExecuteScrape(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	logger := newLogger(cfg)
	m := metrics.NewManager()
	fetcher := fetch.New(fetch.OptionsFromConfig(cfg), mgr.GetPageStore(), m, logger)
	p := NewPipeline(logger, m)

	acc, failed, err := Scrape(ctx, cfg, fetcher, p)
	if err != nil {
		return err
	}
	if len(acc.Years()) == 0 {
		return fmt.Errorf("no season pages could be fetched (%d failed)", failed)
	}

	out := p.Clean(acc.Batch())
	return finishRun(cfg, mgr, p, m, start, acc.Years(), "scrape", out)
}

// ExecuteClean re-validates the raw snapshots of an earlier scrape without fetching.
func ExecuteClean(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if cfg.RawDir == "" {
		return errors.New("--raw-dir is required for clean")
	}
	logger := newLogger(cfg)
	m := metrics.NewManager()
	p := NewPipeline(logger, m)

	snaps, err := iocache.ReadSnapshots(cfg.RawDir)
	if err != nil {
		return err
	}
	acc := &Accumulator{}
	for _, snap := range snaps {
		m.RecordExtracted(snap.Batch)
		acc.Add(snap.Year, snap.Batch)
	}

	out := p.Clean(acc.Batch())
	return finishRun(cfg, mgr, p, m, start, acc.Years(), "clean", out)
}

// Scrape fetches and extracts each configured year in order. A failed fetch skips the
// year and is counted; only cancellation or a snapshot write error stops the run.
func Scrape(ctx context.Context, cfg *contract.Config, fetcher contract.PageFetcher, p *Pipeline) (*Accumulator, int, error) {
	acc := &Accumulator{}
	failed := 0

	for _, year := range cfg.Years {
		if err := ctx.Err(); err != nil {
			return acc, failed, err
		}

		url := schema.YearURL(cfg.BaseURL, year)
		body, err := fetcher.FetchPage(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return acc, failed, ctx.Err()
			}
			failed++
			p.logger.Warn("season skipped", "year", year, "url", url, "err", err)
			continue
		}

		page, err := markup.ParseBytes(body)
		if err != nil {
			failed++
			p.logger.Warn("season skipped", "year", year, "url", url, "err", err)
			continue
		}

		batch, _ := p.ExtractPage(year, page)
		acc.Add(year, batch)

		if cfg.RawDir != "" {
			snap := iocache.Snapshot{Year: year, URL: url, Batch: batch}
			if _, err := iocache.WriteSnapshot(cfg.RawDir, snap); err != nil {
				return acc, failed, err
			}
		}
	}
	return acc, failed, nil
}

// SaveRun persists a cleaned outcome as one run. A nil store saves nothing.
func SaveRun(store contract.RecordStore, start time.Time, years []int, params map[string]any, out Outcome) (int64, error) {
	if store == nil {
		return 0, nil
	}

	runID, err := store.BeginRun(start, years, params)
	if err != nil {
		return 0, fmt.Errorf("failed to begin run: %w", err)
	}
	if err := store.SaveBatch(runID, out.Cleaned); err != nil {
		return runID, fmt.Errorf("failed to save records: %w", err)
	}
	if err := store.SaveIssues(runID, out.Issues); err != nil {
		return runID, fmt.Errorf("failed to save quality log: %w", err)
	}
	if err := store.EndRun(runID, time.Now(), out.Cleaned.Counts()); err != nil {
		return runID, fmt.Errorf("failed to end run: %w", err)
	}
	return runID, nil
}

// finishRun saves the run, flushes metrics and prints the report.
func finishRun(cfg *contract.Config, mgr contract.CacheManager, p *Pipeline, m *metrics.Manager, start time.Time, years []int, source string, out Outcome) error {
	runID, err := SaveRun(mgr.GetRecordStore(), start, years, runParams(cfg, source), out)
	if err != nil {
		return err
	}
	p.logger.Info("run saved", "run_id", runID, "records", out.Cleaned.Len(), "issues", len(out.Issues))

	duration := time.Since(start)
	m.RecordRun(duration, time.Now())
	if err := m.WriteToTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Cannot write metrics file", err)
	}
	return outwriter.WriteReport(out.Report, cfg, duration)
}

// runParams records the settings that shaped a run.
func runParams(cfg *contract.Config, source string) map[string]any {
	params := map[string]any{"source": source}
	if source == "scrape" {
		params["base_url"] = cfg.BaseURL
		params["rate"] = cfg.Rate
		params["retries"] = cfg.Retries
	} else {
		params["raw_dir"] = cfg.RawDir
	}
	return params
}

func newLogger(cfg *contract.Config) *slog.Logger {
	return contract.NewLogger(os.Stderr, cfg.LogLevel)
}

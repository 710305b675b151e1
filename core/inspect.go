package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/fetch"
	"github.com/huangsam/almanac/internal/markup"
	"github.com/huangsam/almanac/internal/outwriter"
	"github.com/huangsam/almanac/schema"
)

var yearPattern = regexp.MustCompile(`(?:18|19|20)\d{2}`)

// ExecuteInspect runs classification and extraction over one page without validating
// or saving anything, and prints what each table yielded.
func ExecuteInspect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	logger := newLogger(cfg)
	fetcher := fetch.New(fetch.OptionsFromConfig(cfg), mgr.GetPageStore(), nil, logger)

	ins, err := Inspect(ctx, cfg, fetcher, NewPipeline(logger, nil))
	if err != nil {
		return err
	}
	return outwriter.WriteInspection(ins, cfg)
}

// Inspect loads cfg.Target and extracts it. The target is a season year, an http(s)
// URL or a local markup file. Local files are sanitized like fetched pages.
func Inspect(ctx context.Context, cfg *contract.Config, fetcher contract.PageFetcher, p *Pipeline) (schema.PageInspection, error) {
	target := strings.TrimSpace(cfg.Target)
	if target == "" {
		return schema.PageInspection{}, errors.New("an inspect target is required: a year, a URL or a file")
	}

	var body []byte
	var err error
	year := cfg.Year
	source := target

	switch {
	case isYear(target):
		year, _ = strconv.Atoi(target)
		source = schema.YearURL(cfg.BaseURL, year)
		body, err = fetcher.FetchPage(ctx, source)
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		if year == 0 {
			year = yearFromText(target)
		}
		body, err = fetcher.FetchPage(ctx, target)
	default:
		if year == 0 {
			year = yearFromText(filepath.Base(target))
		}
		var raw []byte
		raw, err = os.ReadFile(target)
		body = markup.Sanitize(raw)
	}
	if err != nil {
		return schema.PageInspection{}, fmt.Errorf("failed to load %s: %w", source, err)
	}

	page, err := markup.ParseBytes(body)
	if err != nil {
		return schema.PageInspection{}, err
	}
	batch, tables := p.ExtractPage(year, page)
	return schema.PageInspection{
		Source:     source,
		Year:       year,
		Title:      page.Title(),
		Tables:     tables,
		TextBlocks: len(page.TextBlocks()),
		Batch:      batch,
	}, nil
}

func isYear(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= schema.FirstSeason && n <= 2100
}

// yearFromText returns the first plausible season year in s, or 0.
func yearFromText(s string) int {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

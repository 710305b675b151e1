package core

import (
	"context"
	"errors"

	"github.com/huangsam/almanac/core/report"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/outwriter"
	"github.com/huangsam/almanac/schema"
)

// recordStore returns the configured record store or an error when there is none.
func recordStore(mgr contract.CacheManager) (contract.RecordStore, error) {
	store := mgr.GetRecordStore()
	if store == nil {
		return nil, errors.New("record store is not initialized; set --db-backend")
	}
	return store, nil
}

// LeaderFilter builds the leader query of a config. A category implies its dataset.
func LeaderFilter(cfg *contract.Config) schema.LeaderFilter {
	dataset := schema.HittingDataset
	if cfg.Dataset == schema.PitchingDataset {
		dataset = schema.PitchingDataset
	}
	if family, ok := cfg.Category.Family(); ok {
		dataset = family.Dataset()
	}
	return schema.LeaderFilter{
		Dataset:  dataset,
		Category: cfg.Category,
		Year:     cfg.Year,
		Team:     cfg.Team,
		Limit:    cfg.ResultLimit,
	}
}

// ExecuteLeaders prints stored league leaders.
func ExecuteLeaders(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	filter := LeaderFilter(cfg)
	records, err := store.QueryLeaders(filter)
	if err != nil {
		return err
	}
	return outwriter.WriteLeaders(filter.Dataset, records, cfg)
}

// ExecuteStandings prints stored standings, best record first.
func ExecuteStandings(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	records, err := store.QueryStandings(cfg.Year, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteStandings(records, cfg)
}

// ExecuteEvents prints stored notable events.
func ExecuteEvents(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	records, err := store.QueryEvents(schema.EventFilter{Year: cfg.Year, EventType: cfg.EventType, Limit: cfg.ResultLimit})
	if err != nil {
		return err
	}
	return outwriter.WriteEvents(records, cfg)
}

// ExecuteIssues prints the quality log of a run.
func ExecuteIssues(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	issues, err := store.QueryIssues(cfg.RunID, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteIssues(issues, cfg)
}

// ExecuteCompare prints the home run leader against the ERA leader of every stored season.
func ExecuteCompare(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	rows, err := store.QueryLeaderComparison(cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteComparison(rows, cfg)
}

// ExecuteHistory prints recent scrape runs.
func ExecuteHistory(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	runs, err := store.QueryRuns(cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteRuns(runs, cfg)
}

// ExecuteReport prints the stored quality distribution with the issue breakdown of a run.
func ExecuteReport(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := recordStore(mgr)
	if err != nil {
		return err
	}
	levels, err := store.QueryQualitySummary()
	if err != nil {
		return err
	}
	issues, err := store.QueryIssues(cfg.RunID, 0)
	if err != nil {
		return err
	}
	return outwriter.WriteQualitySummary(levels, report.Build(issues, nil), cfg)
}

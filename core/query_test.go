package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/internal/iocache"
	"github.com/huangsam/almanac/schema"
)

func TestLeaderFilter(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, schema.HittingDataset, LeaderFilter(cfg).Dataset)

	cfg.Dataset = schema.PitchingDataset
	assert.Equal(t, schema.PitchingDataset, LeaderFilter(cfg).Dataset)

	cfg.Dataset = schema.StandingsDataset
	assert.Equal(t, schema.HittingDataset, LeaderFilter(cfg).Dataset, "non-leader datasets fall back to hitting")

	cfg.Dataset = ""
	cfg.Category = schema.Strikeouts
	cfg.Year = 1927
	cfg.Team = "Athletics"
	filter := LeaderFilter(cfg)
	assert.Equal(t, schema.PitchingDataset, filter.Dataset, "category implies dataset")
	assert.Equal(t, schema.Strikeouts, filter.Category)
	assert.Equal(t, 1927, filter.Year)
	assert.Equal(t, "Athletics", filter.Team)
	assert.Equal(t, cfg.ResultLimit, filter.Limit)
}

func TestQueryExecutorsWithoutStore(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRecordStore").Return(nil)

	for _, exec := range []ExecutorFunc{
		ExecuteLeaders, ExecuteStandings, ExecuteEvents, ExecuteIssues,
		ExecuteCompare, ExecuteHistory, ExecuteReport,
	} {
		err := exec(context.Background(), testConfig(t), mgr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record store is not initialized")
	}
}

func TestExecuteLeaders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Category = schema.HomeRuns
	filter := LeaderFilter(cfg)

	store := &iocache.MockRecordStore{}
	store.On("QueryLeaders", filter).Return([]schema.StatRecord{
		{Year: 1927, PlayerName: "Babe Ruth", Team: "New York Yankees", StatCategory: schema.HomeRuns, StatValue: 60, QualityScore: 100, QualityLevel: schema.HighQuality},
	}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRecordStore").Return(store)

	require.NoError(t, ExecuteLeaders(context.Background(), cfg, mgr))
	store.AssertExpectations(t)

	var got []schema.StatRecord
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Babe Ruth", got[0].PlayerName)
}

func TestExecuteIssuesUsesRunID(t *testing.T) {
	cfg := testConfig(t)
	cfg.RunID = schema.AllRuns

	store := &iocache.MockRecordStore{}
	store.On("QueryIssues", schema.AllRuns, cfg.ResultLimit).Return([]schema.QualityIssue{
		{RecordID: "hitting_leaders:1927:RBI:Home Runs", Field: "player_name", IssueType: schema.IssueFieldConfusion, Severity: schema.SeverityLow},
	}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRecordStore").Return(store)

	require.NoError(t, ExecuteIssues(context.Background(), cfg, mgr))
	store.AssertExpectations(t)
	assert.Contains(t, readOutput(t, cfg), "field_confusion")
}

func TestExecuteReport(t *testing.T) {
	cfg := testConfig(t)

	store := &iocache.MockRecordStore{}
	store.On("QueryQualitySummary").Return([]schema.QualityLevelCount{
		{Dataset: schema.HittingDataset, QualityLevel: schema.HighQuality, Records: 12, AvgScore: 98.5},
	}, nil)
	store.On("QueryIssues", int64(0), 0).Return([]schema.QualityIssue{
		{IssueType: schema.IssueOutOfRange, Severity: schema.SeverityHigh, Field: "stat_value"},
		{IssueType: schema.IssueOutOfRange, Severity: schema.SeverityHigh, Field: "stat_value"},
	}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetRecordStore").Return(store)

	require.NoError(t, ExecuteReport(context.Background(), cfg, mgr))
	store.AssertExpectations(t)

	out := readOutput(t, cfg)
	assert.Contains(t, out, `"records": 12`)
	assert.Contains(t, out, `"out_of_range": 2`)
}

func TestExecuteHistoryAndCompare(t *testing.T) {
	mgr, store := newSQLiteManager(t)
	cfg := testConfig(t)

	out := NewPipeline(nil, nil).Clean(schema.Batch{
		Hitting:  []schema.StatRecord{{Year: 1927, PlayerName: "Babe Ruth", Team: "NYY", StatCategory: schema.HomeRuns, StatValue: 60}},
		Pitching: []schema.StatRecord{{Year: 1927, PlayerName: "Wilcy Moore", Team: "NYY", StatCategory: schema.ERA, StatValue: 2.28}},
	})
	_, err := SaveRun(store, time.Now(), []int{1927}, nil, out)
	require.NoError(t, err)

	require.NoError(t, ExecuteHistory(context.Background(), cfg, mgr))
	assert.Contains(t, readOutput(t, cfg), `"years": "1927"`)

	cfg.OutputFile = filepath.Join(t.TempDir(), "compare.json")
	require.NoError(t, ExecuteCompare(context.Background(), cfg, mgr))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hr_leader": "Babe Ruth"`)
	assert.Contains(t, string(data), `"era_leader": "Wilcy Moore"`)
}

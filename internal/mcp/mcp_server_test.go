package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/iocache"
	mcp_internal "github.com/huangsam/almanac/internal/mcp"
	"github.com/huangsam/almanac/schema"
)

func callTool(t *testing.T, mgr contract.CacheManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	baseCfg := &contract.Config{ResultLimit: contract.DefaultResultLimit}
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestClassifyTable(t *testing.T) {
	res := callTool(t, nil, "classify_table", map[string]any{
		"table_text":   "Team Won Lost Pct GB New York Yankees 110 44 .714",
		"context_text": "Final Standings",
	})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"kind": "standings"}`, resultText(res))

	res = callTool(t, nil, "classify_table", map[string]any{"table_text": ""})
	assert.True(t, res.IsError)
}

func TestExtractEvents(t *testing.T) {
	res := callTool(t, nil, "extract_events", map[string]any{
		"year": 1951.0,
		"text": "Bobby Thomson hit the Shot Heard Round the World home run to win the pennant for the Giants.\n\n" +
			"Copyright 2027 Baseball Almanac. All rights reserved.",
	})
	require.False(t, res.IsError)

	var found []schema.EventRecord
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &found))
	require.Len(t, found, 1)
	assert.Equal(t, 1951, found[0].Year)

	res = callTool(t, nil, "extract_events", map[string]any{"year": 1800.0, "text": "anything"})
	assert.True(t, res.IsError)
}

func TestValidateRecords(t *testing.T) {
	res := callTool(t, nil, "validate_records", map[string]any{
		"dataset": "team_standings",
		"records": `[{"year": 1927, "team_name": "New York Yankees", "wins": 110, "losses": 44},
			{"year": 1927, "team_name": "Boston Red Sox", "wins": 10, "losses": 5}]`,
	})
	require.False(t, res.IsError)

	var out struct {
		Records []schema.StandingsRecord `json:"records"`
		Issues  []schema.QualityIssue    `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
	require.Len(t, out.Records, 1)
	assert.InDelta(t, 0.714, out.Records[0].WinPct, 1e-9)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, schema.IssueSeasonLength, out.Issues[0].IssueType)

	res = callTool(t, nil, "validate_records", map[string]any{"dataset": "hitting_leaders", "records": "not json"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "invalid records")

	res = callTool(t, nil, "validate_records", map[string]any{"dataset": "box_scores", "records": "[]"})
	assert.True(t, res.IsError)
}

func TestStoreTools(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetRecordStore").Return(nil)

		res := callTool(t, mgr, "get_leaders", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "record store is not initialized")
	})

	t.Run("get_leaders", func(t *testing.T) {
		store := &iocache.MockRecordStore{}
		store.On("QueryLeaders", schema.LeaderFilter{
			Dataset: schema.PitchingDataset, Category: schema.ERA, Year: 1927, Limit: 5,
		}).Return([]schema.StatRecord{{Year: 1927, PlayerName: "Wilcy Moore", StatCategory: schema.ERA, StatValue: 2.28}}, nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetRecordStore").Return(store)

		res := callTool(t, mgr, "get_leaders", map[string]any{"category": "era", "year": 1927.0, "limit": 5.0})
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), "Wilcy Moore")
		store.AssertExpectations(t)
	})

	t.Run("get_leaders unknown category", func(t *testing.T) {
		res := callTool(t, nil, "get_leaders", map[string]any{"category": "Stolen Hearts"})
		assert.True(t, res.IsError)
	})

	t.Run("get_quality_issues", func(t *testing.T) {
		store := &iocache.MockRecordStore{}
		store.On("QueryIssues", schema.AllRuns, contract.DefaultResultLimit).Return(nil, nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetRecordStore").Return(store)

		res := callTool(t, mgr, "get_quality_issues", map[string]any{"run": -1.0})
		require.False(t, res.IsError)
		assert.Equal(t, "[]", resultText(res))
		store.AssertExpectations(t)

		res = callTool(t, mgr, "get_quality_issues", map[string]any{"run": -5.0})
		assert.True(t, res.IsError)
	})
}

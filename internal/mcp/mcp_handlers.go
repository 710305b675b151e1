package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/core/classify"
	"github.com/huangsam/almanac/core/events"
	"github.com/huangsam/almanac/core/validate"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *toolHandler) recordStore() (contract.RecordStore, error) {
	if h.mgr == nil || h.mgr.GetRecordStore() == nil {
		return nil, fmt.Errorf("record store is not initialized; set --db-backend")
	}
	return h.mgr.GetRecordStore(), nil
}

func (h *toolHandler) handleClassifyTable(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tableText := request.GetString("table_text", "")
	if tableText == "" {
		return mcp.NewToolResultError("table_text is required"), nil
	}
	kind := classify.Classify(tableText, request.GetString("context_text", ""))
	return jsonResult(map[string]schema.TableKind{"kind": kind})
}

func (h *toolHandler) handleExtractEvents(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year := request.GetInt("year", 0)
	if year < schema.FirstSeason {
		return mcp.NewToolResultError(fmt.Sprintf("year must be %d or later", schema.FirstSeason)), nil
	}
	text := request.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	blocks := paragraphBreak.Split(text, -1)
	found := events.New(nil).Extract(year, blocks)
	if found == nil {
		found = []schema.EventRecord{}
	}
	return jsonResult(found)
}

// validation is the result of validate_records.
type validation struct {
	Records any                   `json:"records"`
	Issues  []schema.QualityIssue `json:"issues"`
}

func (h *toolHandler) handleValidateRecords(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dataset := schema.Dataset(request.GetString("dataset", ""))
	raw := []byte(request.GetString("records", ""))
	v := validate.New(nil)

	var out validation
	var err error
	switch dataset {
	case schema.HittingDataset, schema.PitchingDataset:
		var records []schema.StatRecord
		if err = json.Unmarshal(raw, &records); err == nil {
			out.Records = nonNil(v.ValidateStats(dataset, records))
		}
	case schema.StandingsDataset:
		var records []schema.StandingsRecord
		if err = json.Unmarshal(raw, &records); err == nil {
			out.Records = nonNil(v.ValidateStandings(records))
		}
	case schema.EventsDataset:
		var records []schema.EventRecord
		if err = json.Unmarshal(raw, &records); err == nil {
			out.Records = nonNil(v.ValidateEvents(records))
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown dataset %q", dataset)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid records: %v", err)), nil
	}

	out.Issues = v.Issues()
	return jsonResult(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (h *toolHandler) handleGetLeaders(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Dataset = schema.Dataset(request.GetString("dataset", string(cfg.Dataset)))
	if c := request.GetString("category", ""); c != "" {
		category, ok := schema.LookupCategory(c)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown stat category %q", c)), nil
		}
		cfg.Category = category
	}
	if y := request.GetInt("year", 0); y > 0 {
		cfg.Year = y
	}
	if t := request.GetString("team", ""); t != "" {
		cfg.Team = t
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	store, err := h.recordStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	records, err := store.QueryLeaders(core.LeaderFilter(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(nonNil(records))
}

func (h *toolHandler) handleGetQualityIssues(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := int64(request.GetInt("run", 0))
	if runID < schema.AllRuns {
		return mcp.NewToolResultError(fmt.Sprintf("run must be a run ID, 0 or %d", schema.AllRuns)), nil
	}
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxResultLimit)
	}

	store, err := h.recordStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	issues, err := store.QueryIssues(runID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(nonNil(issues))
}

// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// NewMCPServer initializes and configures the almanac MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Almanac Records Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: classify_table ---
	s.AddTool(mcp.NewTool("classify_table",
		mcp.WithDescription("Classify an almanac table as hitting, pitching, standings or unknown from its text and surrounding context."),
		mcp.WithString("table_text", mcp.Description("The table's cell text joined by spaces."), mcp.Required()),
		mcp.WithString("context_text", mcp.Description("Caption, heading or nearby text of the table.")),
	), h.handleClassifyTable)

	// --- 2. Tool: extract_events ---
	s.AddTool(mcp.NewTool("extract_events",
		mcp.WithDescription("Extract classified notable events from season prose. Paragraphs are separated by blank lines."),
		mcp.WithNumber("year", mcp.Description("Season the prose belongs to."), mcp.Required()),
		mcp.WithString("text", mcp.Description("Prose from a season page."), mcp.Required()),
	), h.handleExtractEvents)

	// --- 3. Tool: validate_records ---
	s.AddTool(mcp.NewTool("validate_records",
		mcp.WithDescription("Repair, score and filter raw records and return them with the quality issues raised."),
		mcp.WithString("dataset", mcp.Description("Dataset the records belong to."), mcp.Required(),
			mcp.Enum(string(schema.HittingDataset), string(schema.PitchingDataset), string(schema.StandingsDataset), string(schema.EventsDataset))),
		mcp.WithString("records", mcp.Description("JSON array of raw records using the stored field names."), mcp.Required()),
	), h.handleValidateRecords)

	// --- 4. Tool: get_leaders ---
	s.AddTool(mcp.NewTool("get_leaders",
		mcp.WithDescription("Query stored league leaders, best first."),
		mcp.WithString("dataset", mcp.Description("hitting_leaders or pitching_leaders. Implied by category when set."),
			mcp.Enum(string(schema.HittingDataset), string(schema.PitchingDataset))),
		mcp.WithString("category", mcp.Description("Stat category such as 'Home Runs' or 'ERA'.")),
		mcp.WithNumber("year", mcp.Description("Restrict to one season.")),
		mcp.WithString("team", mcp.Description("Restrict to one team.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetLeaders)

	// --- 5. Tool: get_quality_issues ---
	s.AddTool(mcp.NewTool("get_quality_issues",
		mcp.WithDescription("Read the quality log of a scrape run."),
		mcp.WithNumber("run", mcp.Description("Run ID. 0 or unset selects the latest run, -1 every run.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetQualityIssues)

	return s
}

// StartMCPServer starts the almanac MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}

package cmd

import (
	"github.com/huangsam/almanac/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Almanac MCP server",
	Long: `Launch an MCP server over stdio so AI agents can classify tables, extract events,
validate records and query the record store through standard tools.`,
	// Diagnostics go to stderr; stdout carries the protocol.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

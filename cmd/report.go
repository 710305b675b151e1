package cmd

import (
	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd summarizes record quality from the store.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize record quality in the store",
	Long: `Show how stored records spread across quality levels, alongside the
issue counts of a scrape run.

Examples:
  # Quality of everything stored, issues of the latest run
  almanac report

  # Issues across every run, as JSON
  almanac report --run -1 --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}

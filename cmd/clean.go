package cmd

import (
	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/spf13/cobra"
)

// cleanCmd re-validates raw snapshots without touching the network.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Re-validate raw snapshots written by scrape",
	Long: `Read the raw extraction snapshots under --raw-dir and run them through
validation and repair again, storing the result as a new run.

Running clean twice over the same snapshots yields the same records.

Examples:
  # Re-run validation after changing team mappings
  almanac clean --raw-dir ./raw

  # Validate into a throwaway store
  almanac clean --raw-dir ./raw --db-backend none`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClean(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run clean", err)
		}
	},
}

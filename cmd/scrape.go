package cmd

import (
	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/spf13/cobra"
)

// scrapeCmd runs the full pipeline over the configured seasons.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch season pages and store validated records",
	Long: `Fetch one page per season, extract leaders, standings and notable events,
then repair and score every record before writing it to the record store.

A season whose page cannot be fetched is skipped with a warning. Pages are
cached so repeated runs only hit the network once per cache-ttl.

Examples:
  # Scrape the default significant seasons
  almanac scrape

  # Scrape a range and keep the raw extraction for offline re-validation
  almanac scrape --years 1990-1995 --raw-dir ./raw

  # Write the quality report as JSON and pipeline counters for node_exporter
  almanac scrape --output json --metrics-file /var/lib/node_exporter/almanac.prom`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScrape(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run scrape", err)
		}
	},
}

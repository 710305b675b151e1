package cmd

import (
	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/spf13/cobra"
)

// queryCmd groups the predefined record store queries.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run predefined queries against the record store",
	Long: `Query the validated records written by scrape and clean.

Subcommands:
  leaders   - Statistical leaders by dataset and category
  standings - Final standings ordered by win percentage
  events    - Notable events by year and type
  issues    - Quality issues logged by a run
  compare   - Yearly home run leader versus ERA leader

Examples:
  # Top home run hitters of every stored season
  almanac query leaders --category "Home Runs"

  # 1927 standings as CSV
  almanac query standings --year 1927 --output csv`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// queryLeadersCmd lists statistical leaders.
var queryLeadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "List statistical leaders",
	Long: `List hitting or pitching leaders ordered by value.

A pitching category such as ERA selects the pitching dataset on its own.

Examples:
  almanac query leaders --category "Home Runs" --limit 10
  almanac query leaders --category ERA --year 1968
  almanac query leaders --dataset pitching_leaders --team "New York Yankees"`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLeaders(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run query leaders", err)
		}
	},
}

// queryStandingsCmd lists final standings.
var queryStandingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "List final standings by win percentage",
	Long: `List team standings ordered by win percentage.

Examples:
  almanac query standings --year 1961
  almanac query standings --limit 5 --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStandings(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run query standings", err)
		}
	},
}

// queryEventsCmd lists notable events.
var queryEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List notable events",
	Long: `List notable events, optionally narrowed to a season or an event type.

Examples:
  almanac query events --year 1998
  almanac query events --event-type No-Hitter`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEvents(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run query events", err)
		}
	},
}

// queryIssuesCmd lists the quality log of a run.
var queryIssuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List quality issues logged by a run",
	Long: `List the quality issues found while validating records.

By default the latest run is shown. Pass --run with a run ID, or -1 for all runs.

Examples:
  almanac query issues
  almanac query issues --run 3 --output csv --output-file issues.csv`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIssues(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run query issues", err)
		}
	},
}

// queryCompareCmd compares hitting and pitching leaders per season.
var queryCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the home run and ERA leaders of each season",
	Long: `Show the home run leader next to the ERA leader for every stored season.

Examples:
  almanac query compare
  almanac query compare --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run query compare", err)
		}
	},
}

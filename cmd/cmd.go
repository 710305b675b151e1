// Package cmd defines the command-line interface for almanac.
package cmd

import (
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(dbCmd)

	// Add the query subcommands to the parent query command
	queryCmd.AddCommand(queryLeadersCmd)
	queryCmd.AddCommand(queryStandingsCmd)
	queryCmd.AddCommand(queryEventsCmd)
	queryCmd.AddCommand(queryIssuesCmd)
	queryCmd.AddCommand(queryCompareCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbHistoryCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("base-url", schema.DefaultBaseURL, "Season page URL template containing {year}")
	rootCmd.PersistentFlags().Float64("rate", contract.DefaultRate, "Maximum page requests per second")
	rootCmd.PersistentFlags().Int("burst", contract.DefaultBurst, "Requests allowed back to back before the rate applies")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-request timeout")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Retries on 429 and 5xx responses")
	rootCmd.PersistentFlags().String("user-agent", contract.DefaultUserAgent, "User-Agent header sent with page requests")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Page cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the page cache (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long a cached page stays fresh")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for the record store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("raw-dir", "", "Directory for raw extraction snapshots")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write pipeline counters to this Prometheus textfile")
	rootCmd.PersistentFlags().Int("year", 0, "Restrict to a single season")
	rootCmd.PersistentFlags().Int64("run", 0, "Scrape run ID (0 = latest run, -1 = all runs)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scrapeCmd to Viper
	scrapeCmd.Flags().String("years", "", "Seasons to scrape, e.g. 1927,1990-1995 (default: significant seasons)")
	if err := viper.BindPFlags(scrapeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scrape flags", err)
	}

	// Bind all persistent flags of queryCmd to Viper
	queryCmd.PersistentFlags().String("dataset", "", "Dataset: hitting_leaders or pitching_leaders or team_standings or notable_events")
	queryCmd.PersistentFlags().String("category", "", "Stat category, e.g. \"Home Runs\" or ERA")
	queryCmd.PersistentFlags().String("event-type", "", "Event type, e.g. \"World Series\" or No-Hitter")
	queryCmd.PersistentFlags().String("team", "", "Team name filter")
	if err := viper.BindPFlags(queryCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding query flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for record store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := backendFromViper("db-backend", "db-connect")
	if err != nil {
		return err
	}

	// Initialize the record store only; db commands never read pages
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for db commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// migrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores, so migrations can run on a fresh database.
func migrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := backendFromViper("db-backend", "db-connect")
	if err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// migrateSetupWrapper wraps migrateSetup to provide PreRunE for the migrate command.
func migrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return migrateSetup()
}

// dbCmd focused on record store management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the record store",
	Long: `Manage the database that holds validated records, the quality log and run history.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (discard)

Subcommands:
  status  - Show record counts and connection info
  clear   - Remove all stored records and runs
  migrate - Apply or roll back schema migrations
  export  - Write every table to Parquet files
  history - List past scrape runs

Examples:
  # Check what has been stored
  almanac db status

  # Use PostgreSQL (set connection string via env variable)
  ALMANAC_DB_BACKEND=postgresql ALMANAC_DB_CONNECT="host=localhost dbname=almanac" almanac db status`,
}

// dbStatusCmd shows record store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show the backend, schema version, run count and per-dataset record counts.

Examples:
  almanac db status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRecordStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get record store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// dbClearCmd clears the record store.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored records and runs",
	Long: `Delete every stored record, quality issue and run from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the record tables and migration history

Examples:
  almanac db clear`,
	PreRunE: migrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		path := sqliteFilePath(cfg.StoreDBConnect, contract.GetStoreDBFilePath())
		if err := iocache.ClearRecords(cfg.StoreBackend, path, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear record store", err)
		}
		fmt.Println("Record store cleared successfully.")
	},
}

// dbMigrateCmd applies schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back record store migrations",
	Long: `Move the record store schema to the latest version, or to --target-version.

Examples:
  # Migrate to the latest schema
  almanac db migrate

  # Roll back to the first schema version
  almanac db migrate --target-version 1`,
	PreRunE: migrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.MigrateRecords(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate record store", err)
		}
		if !result.Changed {
			fmt.Printf("Record store already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated record store from version %d to %d.\n", result.From, result.To)
	},
}

// dbExportCmd exports every table to Parquet.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to Parquet files",
	Long: `Write each dataset, the quality log and the run history to Parquet.

--output-file is used as a prefix: one <prefix>.<table>.parquet file per table.

Examples:
  almanac db export --output-file ./out/almanac`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		paths, err := iocache.ExportRecords(os.Stdout, iocache.Manager.GetRecordStore(), cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export records", err)
		}
		fmt.Printf("Export complete: %d files.\n", len(paths))
	},
}

// dbHistoryCmd lists past scrape runs.
var dbHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past scrape runs",
	Long: `Show recent scrape runs with their seasons and per-dataset record counts.

Examples:
  almanac db history --limit 10`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run db history", err)
		}
	},
}

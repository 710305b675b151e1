package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for the page cache.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the record store.
func GetStoreDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// InitStores initializes the global manager. An empty backend leaves that store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, storeBackend schema.DatabaseBackend, storeConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var pages contract.CacheStore
		if cacheBackend != "" {
			store, err := NewPageStore(pagesTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize page cache: %w", err)
				return
			}
			pages = store
		}

		var records contract.RecordStore
		if storeBackend != "" {
			store, err := NewRecordStore(storeBackend, storeConnStr)
			if err != nil {
				if pages != nil {
					_ = pages.Close()
				}
				initErr = fmt.Errorf("failed to initialize record store: %w", err)
				return
			}
			records = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.pages = pages
		Manager.records = records
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.pages != nil {
			_ = Manager.pages.Close()
		}
		if Manager.records != nil {
			_ = Manager.records.Close()
		}
	})
}

// ClearPages removes the page cache. SQLite deletes the file; server backends drop the table.
func ClearPages(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearTables(backend, dbFilePath, connStr, pagesTable)
}

// ClearRecords removes the record store, including its migration history.
func ClearRecords(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	tables := append([]string{"schema_migrations"}, recordTables...)
	return clearTables(backend, dbFilePath, connStr, tables...)
}

func clearTables(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := sql.Open(driverName(backend), connStr)
		if err != nil {
			return fmt.Errorf("failed to connect to %s database: %w", backend, err)
		}
		defer func() { _ = db.Close() }()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", backend, err)
		}
		for _, table := range tables {
			query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
			if _, err := db.Exec(query); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/almanac/schema"
)

// PageFetcher retrieves the raw markup of a season page.
// A failed fetch means "no data for this year", never a fatal pipeline error.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// CacheManager defines the interface for managing the page cache and record store.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetPageStore() CacheStore
	GetRecordStore() RecordStore
}

// CacheStore defines the interface for cached page storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RecordStore is the sink for validated records and the quality log.
type RecordStore interface {
	// --- Run bookkeeping ---

	// BeginRun creates a new scrape run and returns its unique ID.
	BeginRun(startTime time.Time, years []int, configParams map[string]any) (int64, error)

	// EndRun stamps the run with its end time and per-dataset counts.
	EndRun(runID int64, endTime time.Time, counts map[schema.Dataset]int) error

	// --- Writes ---

	// SaveBatch upserts the cleaned records of a run.
	SaveBatch(runID int64, batch schema.Batch) error

	// SaveIssues appends the quality issues of a run.
	SaveIssues(runID int64, issues []schema.QualityIssue) error

	// --- Predefined queries ---

	QueryLeaders(filter schema.LeaderFilter) ([]schema.StatRecord, error)
	QueryStandings(year int, limit int) ([]schema.StandingsRecord, error)
	QueryEvents(filter schema.EventFilter) ([]schema.EventRecord, error)
	QueryIssues(runID int64, limit int) ([]schema.QualityIssue, error)
	QueryLeaderComparison(limit int) ([]schema.LeaderComparison, error)
	QueryQualitySummary() ([]schema.QualityLevelCount, error)
	QueryRuns(limit int) ([]schema.RunRecord, error)

	// GetStatus returns status information about the record store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

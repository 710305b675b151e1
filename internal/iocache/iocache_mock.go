package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetPageStore implements the CacheManager interface.
func (m *MockCacheManager) GetPageStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRecordStore implements the CacheManager interface.
func (m *MockCacheManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RecordStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// BeginRun implements the RecordStore interface.
func (m *MockRecordStore) BeginRun(startTime time.Time, years []int, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, years, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RecordStore interface.
func (m *MockRecordStore) EndRun(runID int64, endTime time.Time, counts map[schema.Dataset]int) error {
	args := m.Called(runID, endTime, counts)
	return args.Error(0)
}

// SaveBatch implements the RecordStore interface.
func (m *MockRecordStore) SaveBatch(runID int64, batch schema.Batch) error {
	args := m.Called(runID, batch)
	return args.Error(0)
}

// SaveIssues implements the RecordStore interface.
func (m *MockRecordStore) SaveIssues(runID int64, issues []schema.QualityIssue) error {
	args := m.Called(runID, issues)
	return args.Error(0)
}

// QueryLeaders implements the RecordStore interface.
func (m *MockRecordStore) QueryLeaders(filter schema.LeaderFilter) ([]schema.StatRecord, error) {
	args := m.Called(filter)
	out, _ := args.Get(0).([]schema.StatRecord)
	return out, args.Error(1)
}

// QueryStandings implements the RecordStore interface.
func (m *MockRecordStore) QueryStandings(year int, limit int) ([]schema.StandingsRecord, error) {
	args := m.Called(year, limit)
	out, _ := args.Get(0).([]schema.StandingsRecord)
	return out, args.Error(1)
}

// QueryEvents implements the RecordStore interface.
func (m *MockRecordStore) QueryEvents(filter schema.EventFilter) ([]schema.EventRecord, error) {
	args := m.Called(filter)
	out, _ := args.Get(0).([]schema.EventRecord)
	return out, args.Error(1)
}

// QueryIssues implements the RecordStore interface.
func (m *MockRecordStore) QueryIssues(runID int64, limit int) ([]schema.QualityIssue, error) {
	args := m.Called(runID, limit)
	out, _ := args.Get(0).([]schema.QualityIssue)
	return out, args.Error(1)
}

// QueryLeaderComparison implements the RecordStore interface.
func (m *MockRecordStore) QueryLeaderComparison(limit int) ([]schema.LeaderComparison, error) {
	args := m.Called(limit)
	out, _ := args.Get(0).([]schema.LeaderComparison)
	return out, args.Error(1)
}

// QueryQualitySummary implements the RecordStore interface.
func (m *MockRecordStore) QueryQualitySummary() ([]schema.QualityLevelCount, error) {
	args := m.Called()
	out, _ := args.Get(0).([]schema.QualityLevelCount)
	return out, args.Error(1)
}

// QueryRuns implements the RecordStore interface.
func (m *MockRecordStore) QueryRuns(limit int) ([]schema.RunRecord, error) {
	args := m.Called(limit)
	out, _ := args.Get(0).([]schema.RunRecord)
	return out, args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

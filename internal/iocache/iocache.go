// Package iocache owns the durable side of the pipeline: the page cache and the
// record store, both on SQLite, MySQL or PostgreSQL.
package iocache

import (
	"sync"

	"github.com/huangsam/almanac/internal/contract"
)

// StoreManager holds the page cache and record store of the process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	pages        contract.CacheStore
	records      contract.RecordStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetPageStore returns the page cache.
func (mgr *StoreManager) GetPageStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.pages
}

// GetRecordStore returns the record store.
func (mgr *StoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

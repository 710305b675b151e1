package iocache

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/almanac/schema"
)

func resetGlobals() {
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &StoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		pagesPath := filepath.Join(dir, "pages.db")
		storePath := filepath.Join(dir, "store.db")

		err := InitStores(schema.SQLiteBackend, pagesPath, schema.SQLiteBackend, storePath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetPageStore())
		assert.NotNil(t, Manager.GetRecordStore())

		CloseStores()
		assert.FileExists(t, pagesPath)
		assert.FileExists(t, storePath)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		path := filepath.Join(t.TempDir(), "pages.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.Nil(t, Manager.GetRecordStore())

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.NotNil(t, Manager.GetPageStore())
		assert.NotNil(t, Manager.GetRecordStore())
		CloseStores()
	})

	t.Run("bad backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores("oracle", "", "", "")
		assert.ErrorContains(t, err, "unsupported backend")
	})
}

func TestPageStore(t *testing.T) {
	t.Run("sqlite roundtrip", func(t *testing.T) {
		store, err := NewPageStore(pagesTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "pages.db"))
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		now := time.Now().Unix()
		require.NoError(t, store.Set("k1", []byte("<table></table>"), 1, now-100))
		require.NoError(t, store.Set("k1", []byte("<table>v2</table>"), 2, now))
		require.NoError(t, store.Set("k2", []byte("<p>x</p>"), 2, now-50))

		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, "<table>v2</table>", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, now, ts)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, now, status.LastEntryTime.Unix())
		assert.Equal(t, now-50, status.OldestEntryTime.Unix())
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("none backend operations", func(t *testing.T) {
		store, err := NewPageStore("test_table", schema.NoneBackend, "")
		require.NoError(t, err)

		_, _, _, err = store.Get("test_key")
		assert.Error(t, err, "Expected error from Get on none backend")
		assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789))
		_, _, _, err = store.Get("test_key")
		assert.Error(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.NoError(t, store.Close())
	})

	t.Run("invalid table name", func(t *testing.T) {
		_, err := NewPageStore("pages; DROP TABLE x", schema.SQLiteBackend, "")
		assert.Error(t, err)
	})
}

func TestClearPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	store, err := NewPageStore(pagesTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearPages(schema.SQLiteBackend, path, ""))
	assert.NoFileExists(t, path)
	assert.NoError(t, ClearPages(schema.SQLiteBackend, path, ""), "missing file is fine")
	assert.Error(t, ClearPages(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearPages(schema.NoneBackend, "", ""))
	assert.Error(t, ClearPages("oracle", "", ""))
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid name starting with underscore", "_test_table", false},
		{"valid mixed case", "TestTable_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	assert.Equal(t, `"almanac_pages"`, quoteTableName("almanac_pages", schema.SQLiteBackend))
	assert.Equal(t, `"almanac_pages"`, quoteTableName("almanac_pages", schema.PostgreSQLBackend))
	assert.Equal(t, "`almanac_pages`", quoteTableName("almanac_pages", schema.MySQLBackend))

	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))

	where := &whereClause{backend: schema.PostgreSQLBackend}
	where.add("year = ?", 1927)
	where.add("team LIKE ?", "%nyy%")
	assert.Equal(t, " WHERE year = $1 AND team LIKE $2", where.String())
	assert.Equal(t, []any{1927, "%nyy%"}, where.args)
	assert.Empty(t, (&whereClause{}).String())

	assert.Equal(t, "", limitClause(0))
	assert.Equal(t, " LIMIT 5", limitClause(5))

	pg := upsertQuery(schema.PostgreSQLBackend, "team_standings", []string{"year", "team_name", "wins"}, []string{"year", "team_name"})
	assert.Contains(t, pg, "ON CONFLICT (year, team_name) DO UPDATE SET wins = EXCLUDED.wins")
	my := upsertQuery(schema.MySQLBackend, "team_standings", []string{"year", "team_name", "wins"}, []string{"year", "team_name"})
	assert.Contains(t, my, "ON DUPLICATE KEY UPDATE wins = new.wins")
	lite := upsertQuery(schema.SQLiteBackend, "team_standings", []string{"year", "team_name", "wins"}, []string{"year", "team_name"})
	assert.Contains(t, lite, "INSERT OR REPLACE")
}

func TestTimeScanner(t *testing.T) {
	var ts timeScanner
	require.NoError(t, ts.Scan("2024-05-01T10:00:00Z"))
	assert.True(t, ts.valid)
	assert.Equal(t, 2024, ts.t.Year())

	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.valid)

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

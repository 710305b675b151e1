//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAlmanacWithMySQL tests the almanac CLI with a MySQL backend.
func TestAlmanacWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "almanac",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/almanac?parseTime=true", host, port.Port())
	runBackendLifecycle(t, "mysql", connStr)
}

// TestAlmanacWithPostgres tests the almanac CLI with a PostgreSQL backend.
func TestAlmanacWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendLifecycle(t, "postgresql", connStr)
}

// runBackendLifecycle drives clear, migrate, scrape and query against one server backend
// that holds both the page cache and the record store.
func runBackendLifecycle(t *testing.T, backend, connStr string) {
	t.Helper()
	t.Setenv("ALMANAC_CACHE_BACKEND", backend)
	t.Setenv("ALMANAC_CACHE_DB_CONNECT", connStr)
	t.Setenv("ALMANAC_DB_BACKEND", backend)
	t.Setenv("ALMANAC_DB_CONNECT", connStr)
	t.Setenv("ALMANAC_RATE", "100")
	t.Setenv("ALMANAC_BASE_URL", newSeasonServer(t))

	_, err := runAlmanac(t, "cache", "clear")
	require.NoError(t, err)

	_, err = runAlmanac(t, "db", "clear")
	require.NoError(t, err)

	out, err := runAlmanac(t, "db", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "to 2")

	_, err = runAlmanac(t, "scrape", "--years", "1927")
	require.NoError(t, err)

	// A second scrape is served from the page cache and upserts the same records
	_, err = runAlmanac(t, "scrape", "--years", "1927")
	require.NoError(t, err)

	out, err = runAlmanac(t, "query", "leaders", "--category", "ERA", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Wilcy Moore")

	out, err = runAlmanac(t, "query", "compare", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Babe Ruth")

	out, err = runAlmanac(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Cached Pages: 1")

	out, err = runAlmanac(t, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")
}

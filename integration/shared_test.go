//go:build basic || database

package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedAlmanacPath holds the path to a shared almanac binary built once for all tests.
	sharedAlmanacPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getAlmanacBinary returns the path to the almanac binary, building it once if needed.
func getAlmanacBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "almanac-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		almanacPath := filepath.Join(tempDir, "almanac")
		buildCmd := exec.Command("go", "build", "-o", almanacPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build almanac: %v", err))
		}

		sharedAlmanacPath = almanacPath
	})

	return sharedAlmanacPath
}

// runAlmanac runs the binary and returns its combined output.
// The environment of the test process (see t.Setenv) is inherited.
func runAlmanac(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getAlmanacBinary(), args...)
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// newSeasonServer serves the 1927 fixture page and 404s every other season.
// It returns the base-url template pointing at the server.
func newSeasonServer(t *testing.T) string {
	t.Helper()
	page, err := os.ReadFile(filepath.Join("..", "core", "testdata", "yr1927a.html"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/yearly/yr1927a.shtml" {
			_, _ = w.Write(page)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/yearly/yr{year}a.shtml"
}

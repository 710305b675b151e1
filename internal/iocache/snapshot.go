package iocache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/almanac/schema"
)

// Snapshot is the raw, unvalidated output of one season page.
type Snapshot struct {
	Year  int          `json:"year"`
	URL   string       `json:"url"`
	Batch schema.Batch `json:"batch"`
}

const snapshotSuffix = ".raw.json"

// WriteSnapshot stores a raw snapshot as <dir>/<year>.raw.json.
func WriteSnapshot(dir string, snap Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create raw directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot for %d: %w", snap.Year, err)
	}
	path := filepath.Join(dir, strconv.Itoa(snap.Year)+snapshotSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return path, nil
}

// ReadSnapshots loads every raw snapshot under dir in year order.
func ReadSnapshots(dir string) ([]Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+snapshotSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no raw snapshots found in %s", dir)
	}

	snaps := make([]Snapshot, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", filepath.Base(path), err)
		}
		if snap.Year == 0 {
			snap.Year, _ = strconv.Atoi(strings.TrimSuffix(filepath.Base(path), snapshotSuffix))
		}
		snaps = append(snaps, snap)
	}
	slices.SortFunc(snaps, func(a, b Snapshot) int { return a.Year - b.Year })
	return snaps, nil
}

package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/almanac/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.QualityLevel
		expected string
	}{
		{"high", schema.HighQuality, "High"},
		{"medium", schema.MediumQuality, "Medium"},
		{"low", schema.LowQuality, "Low"},
		{"invalid", schema.InvalidQuality, "Invalid"},
		{"not scored yet", "", "Unscored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, level := range schema.AllQualityLevels {
		t.Run(string(level), func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorLabel(level), GetPlainLabel(level))
		})
	}
}

func TestGetSeverityLabel(t *testing.T) {
	for _, severity := range schema.AllSeverities {
		assert.Contains(t, GetSeverityLabel(severity), string(severity))
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	cachePath := GetCacheDBFilePath()
	storePath := GetStoreDBFilePath()
	assert.True(t, strings.HasSuffix(cachePath, ".almanac_pages.db"))
	assert.True(t, strings.HasSuffix(storePath, ".almanac.db"))
	assert.NotEqual(t, cachePath, storePath)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "Lou Ge...", TruncateText("Lou Gehrig retired", 9))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3), "too narrow to truncate")
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func FuzzParseYears(f *testing.F) {
	for _, seed := range []string{"", "1927", "1990-1995", "1927, 1961,1927", "x-y", "2020-1990"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		years, err := ParseYears(s, 2025)
		if err != nil {
			return
		}
		for i, y := range years {
			if y < schema.FirstSeason || y > 2025 {
				t.Fatalf("year %d out of bounds for %q", y, s)
			}
			if i > 0 && years[i-1] >= y {
				t.Fatalf("years not strictly increasing for %q: %v", s, years)
			}
		}
	})
}

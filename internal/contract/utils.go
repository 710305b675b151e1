package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/almanac/schema"
)

// Color variables for console output.
var (
	InvalidColor = color.New(color.FgRed, color.Bold)     // InvalidColor marks excluded records and blocking issues.
	LowColor     = color.New(color.FgMagenta, color.Bold) // LowColor marks records kept with little confidence.
	MediumColor  = color.New(color.FgYellow)              // MediumColor marks standard caution, not bold.
	HighColor    = color.New(color.FgCyan)                // HighColor marks trusted records.
)

// GetPlainLabel returns the display label of a quality level.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(level schema.QualityLevel) string {
	switch level {
	case schema.HighQuality:
		return "High"
	case schema.MediumQuality:
		return "Medium"
	case schema.LowQuality:
		return "Low"
	case schema.InvalidQuality:
		return "Invalid"
	default:
		return "Unscored"
	}
}

// GetColorLabel returns a colored quality label for console output (table).
func GetColorLabel(level schema.QualityLevel) string {
	text := GetPlainLabel(level)

	switch level {
	case schema.HighQuality:
		return HighColor.Sprint(text)
	case schema.MediumQuality:
		return MediumColor.Sprint(text)
	case schema.LowQuality:
		return LowColor.Sprint(text)
	default:
		return InvalidColor.Sprint(text)
	}
}

// GetSeverityLabel returns a colored severity label for console output (table).
// Severity shares the quality palette inverted: high severity is the most alarming.
func GetSeverityLabel(severity schema.Severity) string {
	text := string(severity)

	switch severity {
	case schema.SeverityHigh, schema.SeverityInvalid:
		return InvalidColor.Sprint(text)
	case schema.SeverityMedium:
		return MediumColor.Sprint(text)
	default:
		return HighColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is set.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the page cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".almanac_pages.db"
	}
	return filepath.Join(homeDir, ".almanac_pages.db")
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the record store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".almanac.db"
	}
	return filepath.Join(homeDir, ".almanac.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave space for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

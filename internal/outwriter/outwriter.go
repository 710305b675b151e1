// Package outwriter renders pipeline results as tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"os"

	"github.com/huangsam/almanac/internal/contract"
	"github.com/huangsam/almanac/internal/parquet"
	"golang.org/x/term"
)

// GetMaxTextWidth returns how wide a free-text column (player name, event description)
// may be, given the terminal width and the space the fixed columns reserve.
func GetMaxTextWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Table borders, separators, and padding
	available := termWidth - reserved - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// writeParquet writes rows to the configured output file. Parquet never goes to stdout.
func writeParquet[T any](cfg *contract.Config, rows []T) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if err := parquet.WriteFile(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// errParquetUnsupported is returned for views that have no columnar form.
func errParquetUnsupported(view string) error {
	return fmt.Errorf("parquet output is not supported for %s; use text, csv or json", view)
}

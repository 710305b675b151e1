// Package main provides a performance benchmarking tool for the Almanac CLI.
// It measures scrape times across season sets with the page cache off, cold and warm,
// treating the first cached run as cold and averaging the rest as warm,
// and writes a CSV for performance analysis and documentation.
//
// Prerequisites:
// - almanac binary installed and available in PATH
// - network access to the season pages (or a mirror passed as base-url)
//
// Usage: go run benchmark/main.go [base-url]
//
//	base-url: Season page template containing {year} (default: the almanac site)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Scenario    string
	Years       string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Rate        string
	NoCacheRuns int
	CacheRuns   int
	CacheFile   string
	Scenarios   []string
	YearSets    map[string]string
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [base-url]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Timeout:     10 * time.Minute,
		Rate:        "1",
		NoCacheRuns: 2,
		CacheRuns:   4,
		CacheFile:   filepath.Join(os.TempDir(), "almanac_benchmark_pages.db"),
		Scenarios:   []string{"single", "decade", "significant"},
		YearSets: map[string]string{
			"single":      "1927",
			"decade":      "1960-1969",
			"significant": "",
		},
	}
	if len(os.Args) == 2 {
		config.BaseURL = os.Args[1]
	}

	if _, err := exec.LookPath("almanac"); err != nil {
		fmt.Printf("Prerequisites check failed: almanac binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every scenario with the cache off and on.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, rate %s/s, no-cache: %d runs, cache: %d runs\n",
		len(config.Scenarios), config.Timeout, config.Rate, config.NoCacheRuns, config.CacheRuns)

	for _, scenario := range config.Scenarios {
		years := config.YearSets[scenario]
		fmt.Printf("Benchmarking %s (years: %s)\n", scenario, displayYears(years))

		_, noCacheAvg := runPhase(config, years, "none", config.NoCacheRuns, "No-cache")

		// Every cached phase starts from an empty cache so the first run is cold
		clearCache(config)
		coldTime, warmAvg := runPhase(config, years, "sqlite", config.CacheRuns, "Cache")

		coldTimeStr := "TIMEOUT"
		if coldTime > 0 {
			coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
		}
		fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

		results = append(results, BenchmarkResult{
			Scenario:    scenario,
			Years:       displayYears(years),
			NoCacheTime: noCacheAvg,
			ColdTime:    coldTimeStr,
			WarmTime:    warmAvg,
		})
	}

	_ = os.Remove(config.CacheFile)
	return results
}

// runPhase runs scrape numRuns times and returns the first time and the average of the rest.
func runPhase(config BenchmarkConfig, years, cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
	fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		if elapsed, ok := runScrape(config, years, cacheBackend); ok {
			times = append(times, elapsed)
		}
	}
	if len(times) == 0 {
		return 0, "TIMEOUT"
	}

	coldTime = times[0]
	warm := times
	if len(times) > 1 {
		warm = times[1:]
	}
	var sum float64
	for _, t := range warm {
		sum += t
	}
	return coldTime, fmt.Sprintf("%.3fs", sum/float64(len(warm)))
}

// runScrape runs one scrape that discards its records, returning the elapsed seconds.
func runScrape(config BenchmarkConfig, years, cacheBackend string) (float64, bool) {
	args := []string{"scrape", "--db-backend", "none", "--cache-backend", cacheBackend, "--rate", config.Rate}
	if cacheBackend == "sqlite" {
		args = append(args, "--cache-db-connect", config.CacheFile)
	}
	if years != "" {
		args = append(args, "--years", years)
	}
	if config.BaseURL != "" {
		args = append(args, "--base-url", config.BaseURL)
	}

	start := time.Now()
	cmd := exec.Command("almanac", args...)

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		if cmdErr == nil && isSuccess(output) {
			return time.Since(start).Seconds(), true
		}
		fmt.Printf("    run failed: %v\n", cmdErr)
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		<-done
	}
	return 0, false
}

// clearCache removes the benchmark page cache.
func clearCache(config BenchmarkConfig) {
	clearCmd := exec.Command("almanac", "cache", "clear", "--cache-db-connect", config.CacheFile)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Run completed in")
}

func displayYears(years string) string {
	if years == "" {
		return "default"
	}
	return years
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("almanac_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"scenario", "years", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Scenario, result.Years, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s (%s): No-cache: %s, Cold: %s, Warm: %s\n",
			result.Scenario, result.Years, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}

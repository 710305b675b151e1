package contract

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/almanac/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultRate        = 0.5 // requests per second
	DefaultBurst       = 1
	DefaultTimeout     = 30 * time.Second
	DefaultRetries     = 3
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultLogLevel    = "warn"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	Years     []int
	BaseURL   string
	Rate      float64
	Burst     int
	Timeout   time.Duration
	Retries   int
	UserAgent string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	RawDir      string
	MetricsFile string

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    slog.Level

	// Query filters
	Dataset   schema.Dataset
	Category  schema.StatCategory
	Year      int
	EventType schema.EventType
	Team      string
	RunID     int64 // 0 selects the latest run, schema.AllRuns every run

	// Inspect target: a season year, a URL or a local markup file.
	Target string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	DBBackend      string `mapstructure:"db-backend"`
	DBConnect      string `mapstructure:"db-connect"`
	RawDir         string `mapstructure:"raw-dir"`
	MetricsFile    string `mapstructure:"metrics-file"`

	// --- Fields from scrapeCmd.Flags() ---
	Years     string  `mapstructure:"years"`
	BaseURL   string  `mapstructure:"base-url"`
	Rate      float64 `mapstructure:"rate"`
	Burst     int     `mapstructure:"burst"`
	Timeout   string  `mapstructure:"timeout"`
	Retries   int     `mapstructure:"retries"`
	UserAgent string  `mapstructure:"user-agent"`

	// --- Fields from queryCmd.PersistentFlags() ---
	Dataset   string `mapstructure:"dataset"`
	Category  string `mapstructure:"category"`
	Year      int    `mapstructure:"year"`
	EventType string `mapstructure:"event-type"`
	Team      string `mapstructure:"team"`
	Run       int64  `mapstructure:"run"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Years = slices.Clone(c.Years)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processScrapeInputs(cfg, input); err != nil {
		return err
	}
	if err := processQueryFilters(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend validates a backend name.
func ParseBackend(name string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates page cache and record store backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Page Cache Validation ---
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("invalid cache-ttl '%s': must be a positive duration like 168h", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	// --- Record Store Validation ---
	backend, err = ParseBackend(input.DBBackend)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// The page cache and record store keep separate tables but must not share a SQLite file.
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.StoreBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		if cachePath == storePath {
			return fmt.Errorf("page cache and record store must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RawDir = strings.TrimSpace(input.RawDir)
	cfg.MetricsFile = strings.TrimSpace(input.MetricsFile)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Log Level Validation ---
	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	return nil
}

// processScrapeInputs handles the target years and fetch settings.
func processScrapeInputs(cfg *Config, input *ConfigRawInput) error {
	years, err := ParseYears(input.Years, time.Now().Year())
	if err != nil {
		return err
	}
	cfg.Years = years

	cfg.BaseURL = strings.TrimSpace(input.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = schema.DefaultBaseURL
	}
	if !strings.Contains(cfg.BaseURL, "{year}") {
		return fmt.Errorf("base-url must contain a {year} placeholder (received %q)", cfg.BaseURL)
	}
	u, err := url.Parse(strings.ReplaceAll(cfg.BaseURL, "{year}", "0"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base-url must be an absolute http(s) URL (received %q)", cfg.BaseURL)
	}

	if input.Rate <= 0 {
		return fmt.Errorf("rate must be greater than 0 (received %g)", input.Rate)
	}
	cfg.Rate = input.Rate

	if input.Burst <= 0 {
		return fmt.Errorf("burst must be greater than 0 (received %d)", input.Burst)
	}
	cfg.Burst = input.Burst

	if input.Retries < 0 {
		return fmt.Errorf("retries cannot be negative (received %d)", input.Retries)
	}
	cfg.Retries = input.Retries

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid timeout '%s': must be a positive duration like 30s", input.Timeout)
		}
		cfg.Timeout = timeout
	}

	cfg.UserAgent = strings.TrimSpace(input.UserAgent)
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return nil
}

// processQueryFilters handles the filters shared by the query commands.
func processQueryFilters(cfg *Config, input *ConfigRawInput) error {
	if input.Dataset != "" {
		cfg.Dataset = schema.Dataset(strings.ToLower(input.Dataset))
		if _, ok := schema.ValidDatasets[cfg.Dataset]; !ok {
			return fmt.Errorf("invalid dataset '%s'. must be hitting_leaders, pitching_leaders, team_standings, notable_events", input.Dataset)
		}
	}

	if input.Category != "" {
		category, ok := schema.LookupCategory(input.Category)
		if !ok {
			return fmt.Errorf("unknown stat category '%s'", input.Category)
		}
		cfg.Category = category
	}

	if input.Year != 0 && (input.Year < schema.FirstSeason || input.Year > time.Now().Year()) {
		return fmt.Errorf("year must be between %d and %d (received %d)", schema.FirstSeason, time.Now().Year(), input.Year)
	}
	cfg.Year = input.Year
	cfg.EventType = schema.EventType(strings.TrimSpace(input.EventType))
	cfg.Team = strings.TrimSpace(input.Team)

	if input.Run < schema.AllRuns {
		return fmt.Errorf("run must be a run ID, 0 for the latest run or %d for all runs (received %d)", schema.AllRuns, input.Run)
	}
	cfg.RunID = input.Run
	return nil
}

// ParseYears parses a comma-separated list of seasons and inclusive ranges like "1990-1995".
// An empty string yields the significant years. The result is sorted and deduplicated.
func ParseYears(s string, lastSeason int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slices.Clone(schema.SignificantYears), nil
	}

	var years []int
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to := part, part
		if before, after, found := strings.Cut(part, "-"); found {
			from, to = strings.TrimSpace(before), strings.TrimSpace(after)
		}
		start, err := strconv.Atoi(from)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		end, err := strconv.Atoi(to)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		if start > end {
			return nil, fmt.Errorf("invalid year range %q: start is after end", part)
		}
		if start < schema.FirstSeason || end > lastSeason {
			return nil, fmt.Errorf("year %q outside %d-%d", part, schema.FirstSeason, lastSeason)
		}
		for y := start; y <= end; y++ {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years in %q", s)
	}

	slices.Sort(years)
	return slices.Compact(years), nil
}

// ParseLogLevel parses debug, info, warn or error.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		s = DefaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("invalid log-level '%s'. must be debug, info, warn, error", s)
	}
	return level, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

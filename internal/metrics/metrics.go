// Package metrics counts what a scrape run did: pages fetched, records extracted and
// kept, and quality issues raised. Counters live on a private Prometheus registry and
// are written to a node-exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/huangsam/almanac/schema"
)

// Fetch outcomes.
const (
	FetchOK     = "fetched"
	FetchCached = "cached"
	FetchFailed = "failed"
)

// Manager owns the pipeline metrics. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	pagesFetched     *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	recordsExtracted *prometheus.CounterVec
	recordsCleaned   *prometheus.CounterVec
	qualityIssues    *prometheus.CounterVec
	runDuration      prometheus.Gauge
	lastRunUnix      prometheus.Gauge
}

// NewManager creates a manager with its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "almanac",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pagesFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pages_total",
		Help:      "Season pages requested, by outcome",
	}, []string{"outcome"})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching one season page, retries included",
		Buckets:   m.histogramBuckets,
	})

	m.recordsExtracted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_extracted_total",
		Help:      "Raw records produced by the extractors, by dataset",
	}, []string{"dataset"})

	m.recordsCleaned = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_cleaned_total",
		Help:      "Records kept after validation, by dataset",
	}, []string{"dataset"})

	m.qualityIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quality_issues_total",
		Help:      "Quality issues raised by the validator, by severity",
	}, []string{"severity"})

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
}

// Registry returns the registry the metrics are gathered from.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordFetch counts a page request with its outcome and duration.
func (m *Manager) RecordFetch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pagesFetched.WithLabelValues(outcome).Inc()
	if outcome != FetchCached {
		m.fetchDuration.Observe(elapsed.Seconds())
	}
}

// RecordExtracted counts the raw records of a batch.
func (m *Manager) RecordExtracted(b schema.Batch) {
	if m == nil {
		return
	}
	for d, n := range b.Counts() {
		m.recordsExtracted.WithLabelValues(string(d)).Add(float64(n))
	}
}

// RecordCleaned counts the records kept by the validator.
func (m *Manager) RecordCleaned(b schema.Batch) {
	if m == nil {
		return
	}
	for d, n := range b.Counts() {
		m.recordsCleaned.WithLabelValues(string(d)).Add(float64(n))
	}
}

// RecordIssues counts quality issues by severity.
func (m *Manager) RecordIssues(issues []schema.QualityIssue) {
	if m == nil {
		return
	}
	for _, is := range issues {
		m.qualityIssues.WithLabelValues(string(is.Severity)).Inc()
	}
}

// RecordRun stamps the duration and end time of a run.
func (m *Manager) RecordRun(elapsed time.Duration, end time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Set(elapsed.Seconds())
	m.lastRunUnix.Set(float64(end.Unix()))
}

// WriteToTextfile writes every metric to path in the text exposition format.
func (m *Manager) WriteToTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Package metrics records migration run statistics in a private Prometheus
// registry and writes them as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aqasim81/sql-migrate-runner/internal/executor"
)

const namespace = "migrate"

// Collector accumulates the outcome of one migration run.
type Collector struct {
	registry   *prometheus.Registry
	files      *prometheus.CounterVec
	statements prometheus.Counter
	benign     *prometheus.CounterVec
	duration   prometheus.Histogram
	lastRun    prometheus.Gauge
}

// New creates a Collector with its metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "files_total", Help: "Migration files processed, by outcome."},
			[]string{"status"},
		),
		statements: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "statements_total", Help: "Statements executed without error."},
		),
		benign: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "benign_errors_total", Help: "Tolerated already-exists errors, by driver code."},
			[]string{"code"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: namespace, Name: "file_duration_seconds", Help: "Time spent per migration file.", Buckets: prometheus.DefBuckets},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "last_run_timestamp_seconds", Help: "Unix time the last run finished."},
		),
	}

	c.registry.MustRegister(c.files, c.statements, c.benign, c.duration, c.lastRun)

	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records a final file result. Starting events are ignored.
func (c *Collector) Observe(res executor.FileResult) {
	if res.Status == executor.StatusStarting {
		return
	}

	c.files.WithLabelValues(string(res.Status)).Inc()
	c.statements.Add(float64(res.Executed))

	for _, b := range res.Benign {
		code := b.Code
		if code == "" {
			code = "unknown"
		}

		c.benign.WithLabelValues(code).Inc()
	}

	if res.Status == executor.StatusApplied || res.Status == executor.StatusFailed {
		c.duration.Observe(res.Duration.Seconds())
	}
}

// ObserveReport records every result in r and stamps the finish time.
func (c *Collector) ObserveReport(r *executor.Report, finished time.Time) {
	if r != nil {
		for i := range r.Results {
			c.Observe(r.Results[i])
		}
	}

	c.lastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written to a temporary name and renamed into place.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}

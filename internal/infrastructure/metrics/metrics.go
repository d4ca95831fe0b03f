// Package metrics provides Prometheus metrics for reconciliation runs and
// the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	RecordsTotal     *prometheus.CounterVec
	ImportedTotal    *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_runs_total",
				Help: "Reconciliation runs by activity source and outcome.",
			},
			[]string{"source", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "worklog_run_duration_seconds",
				Help:    "Wall time of reconciliation runs.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		RecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_records_total",
				Help: "Classified records by status.",
			},
			[]string{"status"},
		),
		ImportedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_import_entries_total",
				Help: "Import entries by result (created, skipped, failed, dry_run).",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_http_requests_total",
				Help: "API requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_provider_fetches_total",
				Help: "Provider fetches by provider and result.",
			},
			[]string{"provider", "result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RunsTotal)
	reg.MustRegister(m.RunDuration)
	reg.MustRegister(m.RecordsTotal)
	reg.MustRegister(m.ImportedTotal)
	reg.MustRegister(m.HTTPRequests)
	reg.MustRegister(m.ProviderRequests)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun counts a finished run and observes its duration
func (m *Metrics) RecordRun(source, status string, seconds float64) {
	m.RunsTotal.WithLabelValues(source, status).Inc()
	m.RunDuration.WithLabelValues(source).Observe(seconds)
}

// RecordRecords adds n records of a status
func (m *Metrics) RecordRecords(status string, n int) {
	m.RecordsTotal.WithLabelValues(status).Add(float64(n))
}

// RecordImport counts one import entry outcome
func (m *Metrics) RecordImport(result string) {
	m.ImportedTotal.WithLabelValues(result).Inc()
}

// RecordHTTP counts one API request
func (m *Metrics) RecordHTTP(method, code string) {
	m.HTTPRequests.WithLabelValues(method, code).Inc()
}

// RecordFetch counts one provider fetch
func (m *Metrics) RecordFetch(provider, result string) {
	m.ProviderRequests.WithLabelValues(provider, result).Inc()
}

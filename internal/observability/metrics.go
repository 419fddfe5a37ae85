package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the
// ingestion and query paths.
type Metrics struct {
	RecordsIngested *prometheus.CounterVec // labels: station
	IngestFailures  *prometheus.CounterVec // labels: reason={unknown_station,bad_payload,store}
	IngestDuration  prometheus.Histogram
	Queries         *prometheus.CounterVec // labels: type={last,forecast,history,latest}, status={ok,not_found,not_implemented,invalid,error}
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsIngested,
		m.IngestFailures,
		m.IngestDuration,
		m.Queries,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build
// them repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind",
			Name:      "records_ingested_total",
			Help:      "Weather records persisted, by station code.",
		}, []string{"station"}),
		IngestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind",
			Name:      "ingest_failures_total",
			Help:      "Rejected or failed station updates, by reason.",
		}, []string{"reason"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wind",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete normalize-resolve-persist cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind",
			Name:      "weather_queries_total",
			Help:      "Weather queries served, by request type and status.",
		}, []string{"type", "status"}),
	}
}

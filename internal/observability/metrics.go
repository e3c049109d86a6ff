// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for both pipeline stages.
type Metrics struct {
	// Batch import metrics
	FilesParsed     prometheus.Counter
	FilesSkipped    *prometheus.CounterVec
	RowsStaged      prometheus.Counter
	TradersUpserted prometheus.Counter
	TradesInserted  prometheus.Counter
	BatchDuration   prometheus.Histogram

	// Stream analysis metrics
	EventsConsumed  prometheus.Counter
	EventsDropped   *prometheus.CounterVec
	SnapshotsStored prometheus.Counter
	EventLatency    prometheus.Histogram

	// Storage metrics
	StoreErrors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered against reg. Binaries
// pass prometheus.DefaultRegisterer; tests can pass a fresh registry or
// nil to skip registration entirely.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "fx_cortex"
	}
	factory := promauto.With(reg)

	return &Metrics{
		FilesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "files_parsed_total",
			Help:      "Total number of export files parsed successfully",
		}),
		FilesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "files_skipped_total",
			Help:      "Total number of export files skipped by reason",
		}, []string{"reason"}),
		RowsStaged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "rows_staged_total",
			Help:      "Total number of trade rows staged after cleaning",
		}),
		TradersUpserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "traders_upserted_total",
			Help:      "Total number of trader records upserted",
		}),
		TradesInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "trades_inserted_total",
			Help:      "Total number of new trades inserted into the warehouse",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "batch_duration_seconds",
			Help:      "Full batch run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		EventsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "events_consumed_total",
			Help:      "Total number of change events consumed",
		}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "events_dropped_total",
			Help:      "Total number of change events dropped by reason",
		}, []string{"reason"}),
		SnapshotsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "snapshots_stored_total",
			Help:      "Total number of analytics snapshots written",
		}),
		EventLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "event_latency_seconds",
			Help:      "Per-event processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of storage operation errors",
		}, []string{"store", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a map build.
type Metrics struct {
	RowsRead     prometheus.Counter
	RowsRetained prometheus.Counter
	RowsDropped  prometheus.Counter
	RunErrors    *prometheus.CounterVec // labels: stage={extract,build,load}
	RunDuration  prometheus.Histogram

	// Results of the last successful run.
	Layers              prometheus.Gauge
	HighSeverityRecords prometheus.Gauge
	RecordsBySeverity   *prometheus.GaugeVec // labels: color={gray,green,orange,red}
	LastRunTimestamp    prometheus.Gauge

	// Loader metrics.
	LoaderDuration *prometheus.HistogramVec // labels: loader
	LayersLoaded   *prometheus.CounterVec   // labels: loader
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.RowsRetained,
		m.RowsDropped,
		m.RunErrors,
		m.RunDuration,
		m.Layers,
		m.HighSeverityRecords,
		m.RecordsBySeverity,
		m.LastRunTimestamp,
		m.LoaderDuration,
		m.LayersLoaded,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "return_map",
			Name:      "rows_read_total",
			Help:      "Total input rows read.",
		}),
		RowsRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "return_map",
			Name:      "rows_retained_total",
			Help:      "Total rows with every required field present.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "return_map",
			Name:      "rows_dropped_total",
			Help:      "Total rows excluded for a missing required value.",
		}),
		RunErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "return_map",
			Name:      "run_errors_total",
			Help:      "Aborted runs by failing stage.",
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "return_map",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-build-load run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Layers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "return_map",
			Name:      "layers",
			Help:      "Number of layers produced by the last run.",
		}),
		HighSeverityRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "return_map",
			Name:      "high_severity_records",
			Help:      "Red records across all layers in the last run.",
		}),
		RecordsBySeverity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "return_map",
			Name:      "records_by_severity",
			Help:      "Retained records per severity color in the last run.",
		}, []string{"color"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "return_map",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		LoaderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "return_map",
			Name:      "loader_duration_seconds",
			Help:      "Time spent writing the view per loader.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"loader"}),
		LayersLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "return_map",
			Name:      "layers_loaded_total",
			Help:      "Layers handed to each loader.",
		}, []string{"loader"}),
	}
}

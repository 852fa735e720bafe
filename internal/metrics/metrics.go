package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "energy_dataset_"

	resultSuccess = "success"
	resultError   = "error"
	resultSkipped = "skipped"

	validationPassed = "passed"
	validationFailed = "failed"
	validationError  = "error"
)

var (
	registerOnce sync.Once

	datasetLoadTotal   *prometheus.CounterVec
	datasetLoadLatency *prometheus.HistogramVec
	datasetRows        *prometheus.GaugeVec
	canonDefects       *prometheus.CounterVec

	validationTotal *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers the metrics with the default registry. Calling it more than
// once is a no-op; every Observe*/Inc* helper is a no-op before Init.
func Init() {
	registerOnce.Do(func() {
		datasetLoadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "load_total",
				Help: "Total dataset loads by dataset and result",
			},
			[]string{"dataset", "result"},
		)
		datasetLoadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "load_latency_seconds",
				Help:    "Dataset load latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"dataset"},
		)
		datasetRows = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "rows",
				Help: "Number of intervals held per collection",
			},
			[]string{"dataset"},
		)
		canonDefects = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "canon_defects_total",
				Help: "Total source values that could not be read",
			},
			[]string{"dataset"},
		)
		validationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_cases_total",
				Help: "Total evaluated validation cases by outcome",
			},
			[]string{"dataset", "outcome"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total collection exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Collection export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API requests by route and status",
			},
			[]string{"route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_latency_seconds",
				Help:    "API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)

		prometheus.MustRegister(
			datasetLoadTotal,
			datasetLoadLatency,
			datasetRows,
			canonDefects,
			validationTotal,
			exportTotal,
			exportLatency,
			httpRequests,
			httpLatency,
		)
	})
}

// ObserveLoad records one dataset load.
func ObserveLoad(dataset, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if datasetLoadTotal != nil {
		datasetLoadTotal.WithLabelValues(dataset, result).Inc()
	}
	if datasetLoadLatency != nil && result != resultSkipped {
		datasetLoadLatency.WithLabelValues(dataset).Observe(duration.Seconds())
	}
}

// SetRows publishes the current collection length.
func SetRows(dataset string, n int) {
	if datasetRows != nil {
		datasetRows.WithLabelValues(dataset).Set(float64(n))
	}
}

// AddDefects counts unreadable source values.
func AddDefects(dataset string, count int) {
	if count <= 0 {
		return
	}
	if canonDefects != nil {
		canonDefects.WithLabelValues(dataset).Add(float64(count))
	}
}

// IncValidation counts one evaluated case. err takes precedence over passed.
func IncValidation(dataset string, passed bool, err error) {
	if validationTotal == nil {
		return
	}
	outcome := validationFailed
	switch {
	case err != nil:
		outcome = validationError
	case passed:
		outcome = validationPassed
	}
	validationTotal.WithLabelValues(dataset, outcome).Inc()
}

// ObserveExport records one export.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// ObserveHTTP records one API request. route is the matched route pattern,
// never the raw path.
func ObserveHTTP(route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultSkipped = resultSkipped
)

// Package metrics holds the Prometheus collectors of the database and its
// HTTP API. They register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatementsTotal counts executed statements by kind and outcome.
	StatementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightoladb_statements_total",
			Help: "Total number of executed SQL statements",
		},
		[]string{"kind", "status"},
	)
	// StatementDuration is the latency of parse plus execute.
	StatementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lightoladb_statement_duration_seconds",
			Help:    "SQL statement latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		},
		[]string{"kind"},
	)
	// StatementErrors counts failed statements by error category.
	StatementErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightoladb_statement_errors_total",
			Help: "Failed SQL statements by error category",
		},
		[]string{"category"},
	)
	RowsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lightoladb_rows_inserted_total",
		Help: "Rows written by INSERT",
	})
	RowsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lightoladb_rows_returned_total",
		Help: "Rows returned by SELECT",
	})
	// StatementCache counts parsed-statement cache lookups by result (hit or miss).
	StatementCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightoladb_statement_cache_total",
			Help: "Parsed statement cache lookups",
		},
		[]string{"result"},
	)
	Tables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lightoladb_tables",
		Help: "Number of tables in the registry",
	})

	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightoladb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lightoladb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lightoladb_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

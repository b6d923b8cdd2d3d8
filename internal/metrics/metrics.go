// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package metrics provides Prometheus instrumentation for:
//   - Event ingestion throughput and rejections
//   - Alert rule trigger counts
//   - Database query performance (DuckDB)
//   - API endpoint latency and throughput
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsAcceptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerwatch_events_accepted_total",
			Help: "Total number of accepted events",
		},
		[]string{"type"},
	)

	EventsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerwatch_events_rejected_total",
			Help: "Total number of rejected events",
		},
		[]string{"reason"}, // "ordering_violation", "duplicate_timestamp"
	)

	AlertsTriggeredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerwatch_alerts_triggered_total",
			Help: "Total number of alert rule triggers",
		},
		[]string{"code"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledgerwatch_rule_evaluation_duration_seconds",
			Help:    "Duration of full rule set evaluation per accepted event",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordEventAccepted increments the accepted-event counter.
func RecordEventAccepted(eventType string) {
	EventsAcceptedTotal.WithLabelValues(eventType).Inc()
}

// RecordEventRejected increments the rejected-event counter.
func RecordEventRejected(reason string) {
	EventsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordAlert increments the alert trigger counter for a rule code.
func RecordAlert(code int) {
	AlertsTriggeredTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// ObserveEvaluation records the duration of one full rule evaluation.
func ObserveEvaluation(duration time.Duration) {
	EvaluationDuration.Observe(duration.Seconds())
}

// ObserveDBQuery records the duration of a database query.
func ObserveDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request with its response code and duration.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

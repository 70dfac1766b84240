// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for API calls and
// reconciliation outcomes. litellmctl is a short-lived process, so metrics
// live on a private registry that is written out as a node-exporter
// textfile at the end of a run instead of being scraped.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIBuckets covers control-plane latencies from 10ms to 30s.
var APIBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Registry holds every litellmctl metric.
var Registry = prometheus.NewRegistry()

var (
	// APIRequestsTotal counts requests sent to the LiteLLM proxy.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litellmctl_api_requests_total",
			Help: "LiteLLM API requests",
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestDuration records request latency in seconds.
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "litellmctl_api_request_duration_seconds",
			Help:    "LiteLLM API request latency",
			Buckets: APIBuckets,
		},
		[]string{"method", "route"},
	)

	// APIRetriesTotal counts retried requests.
	APIRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litellmctl_api_retries_total",
			Help: "LiteLLM API request retries",
		},
		[]string{"method", "route"},
	)

	// ReconcileTotal counts reconciliation outcomes per resource kind.
	ReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litellmctl_reconcile_total",
			Help: "Resource reconciliations",
		},
		[]string{"kind", "action", "result"},
	)

	// LastRunTimestamp is the unix time of the last completed apply.
	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "litellmctl_last_run_timestamp_seconds",
			Help: "Unix time of the last completed apply",
		},
	)
)

func init() {
	Registry.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		APIRetriesTotal,
		ReconcileTotal,
		LastRunTimestamp,
	)
}

// StatusClass returns "2xx", "4xx", ... for an HTTP status, or "error" when
// no response was received.
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ObserveRequest records one API request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, StatusClass(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveRetry records one retried API request.
func ObserveRetry(method, route string) {
	APIRetriesTotal.WithLabelValues(method, route).Inc()
}

// ObserveReconcile records the outcome of one reconciliation.
func ObserveReconcile(kind, action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ReconcileTotal.WithLabelValues(kind, action, result).Inc()
}

// MarkRun sets the last-run gauge to t.
func MarkRun(t time.Time) {
	LastRunTimestamp.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is written atomically so a concurrent node-exporter never reads
// a partial file.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

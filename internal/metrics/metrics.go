// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package metrics provides Prometheus instrumentation for Narad:
// session store activity, recommendation engine throughput, API latency,
// and the external provider circuit breaker.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session store metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narad_sessions_created_total",
			Help: "Total number of conversation sessions created",
		},
	)

	SessionsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_sessions_expired_total",
			Help: "Total number of sessions evicted by expiry",
		},
		[]string{"cause"}, // "lazy", "sweep", "clear"
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "narad_sessions_active",
			Help: "Current number of live sessions",
		},
	)

	MessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_messages_appended_total",
			Help: "Total number of messages appended to session histories",
		},
		[]string{"role"},
	)

	HistoryEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narad_history_evictions_total",
			Help: "Total number of oldest-message drops on full history buffers",
		},
	)

	// Recommendation engine metrics
	RecommendRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narad_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
	)

	RecommendFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "narad_recommend_fallbacks_total",
			Help: "Total number of requests served by the most-popular fallback",
		},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narad_recommend_duration_seconds",
			Help:    "Recommendation pipeline duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RecommendCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_recommend_candidates_total",
			Help: "Total candidates produced, by generator",
		},
		[]string{"algorithm"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narad_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// External provider metrics
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_provider_calls_total",
			Help: "Total number of generative-language provider calls",
		},
		[]string{"outcome"}, // "ok", "error", "rejected", "fallback"
	)

	ProviderCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narad_provider_call_duration_seconds",
			Help:    "Provider call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "narad_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narad_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

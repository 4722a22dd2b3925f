// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics owns the Prometheus registry for the Timekeep API.
//
// Every collector hangs off a private [prometheus.Registry] so tests can build
// isolated instances. All methods are safe on a nil *Metrics, which lets
// packages accept metrics as an optional dependency.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by several collectors.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomePanic   = "panic"
)

// Metrics collects the application collectors.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	routeDecisions    *prometheus.CounterVec
	roleLookupFailure *prometheus.CounterVec
	pollTicks         *prometheus.CounterVec
	mutationsRejected *prometheus.CounterVec
}

// New initialises the registry and all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timekeep_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timekeep_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timekeep_route_decisions_total",
		Help: "Route permission decisions by route and outcome.",
	}, []string{"route", "outcome"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timekeep_role_lookup_failures_total",
		Help: "Role lookups that fell back to the least-privileged role.",
	}, []string{"reason"})
	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timekeep_poll_ticks_total",
		Help: "Polling session callbacks by session and outcome.",
	}, []string{"session", "outcome"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timekeep_entry_mutations_rejected_total",
		Help: "Entry mutations rejected because the entry left its edit window.",
	}, []string{"action"})

	registry.MustRegister(requests, duration, decisions, lookups, ticks, rejected)

	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		routeDecisions:    decisions,
		roleLookupFailure: lookups,
		pollTicks:         ticks,
		mutationsRejected: rejected,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// RouteDecision counts one route permission check.
func (m *Metrics) RouteDecision(route string, allowed bool) {
	if m == nil {
		return
	}
	outcome := OutcomeDenied
	if allowed {
		outcome = OutcomeAllowed
	}
	m.routeDecisions.WithLabelValues(route, outcome).Inc()
}

// RoleLookupFailed counts a fail-closed role lookup.
func (m *Metrics) RoleLookupFailed(reason string) {
	if m == nil {
		return
	}
	m.roleLookupFailure.WithLabelValues(reason).Inc()
}

// PollTick counts one polling callback.
func (m *Metrics) PollTick(session, outcome string) {
	if m == nil {
		return
	}
	m.pollTicks.WithLabelValues(session, outcome).Inc()
}

// EntryMutationRejected counts one locked-entry rejection.
func (m *Metrics) EntryMutationRejected(action string) {
	if m == nil {
		return
	}
	m.mutationsRejected.WithLabelValues(action).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the recorder.
func (recorder *statusRecorder) Flush() {
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

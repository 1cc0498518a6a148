// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "absensi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	AttendanceActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "attendance_actions_total",
		Help:      "Check-in and check-out attempts by action and outcome.",
	}, []string{"action", "outcome"})

	LeaveSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "leave_submissions_total",
		Help:      "Leave, sick and permission submissions by type.",
	}, []string{"type"})

	RecapCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "recap_cache_lookups_total",
		Help:      "Monthly recap cache lookups by result.",
	}, []string{"result"})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "absensi",
		Name:      "stream_clients",
		Help:      "Open attendance event streams.",
	})

	StaleSessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "stale_sessions_closed_total",
		Help:      "Open sessions from previous days closed by the sweeper.",
	})

	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi",
		Name:      "cron_runs_total",
		Help:      "Background job runs by job name and outcome.",
	}, []string{"job", "outcome"})
)

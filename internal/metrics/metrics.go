// Package metrics exposes Prometheus collectors for card sessions and the HTTP
// API on a private registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cardpay/internal/services/cardform"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cardpay"

// Metrics implements cardform.MetricsCollector and the session gauges.
type Metrics struct {
	registry *prometheus.Registry

	submissions    *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	ignoredSubmits prometheus.Counter
	activeSessions prometheus.Gauge
	expiredSession prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ cardform.MetricsCollector = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cardform",
				Name:      "submissions_total",
				Help:      "Completed card submissions by outcome and failure reason.",
			},
			[]string{"outcome", "reason"},
		),
		submitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cardform",
				Name:      "submission_duration_seconds",
				Help:      "Time from submit to a terminal state.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"outcome"},
		),
		ignoredSubmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cardform",
			Name:      "ignored_submits_total",
			Help:      "Submits dropped because a submission was already processing.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Card sessions currently open.",
		}),
		expiredSession: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Card sessions closed for inactivity.",
		}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.submissions,
		m.submitDuration,
		m.ignoredSubmits,
		m.activeSessions,
		m.expiredSession,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) RecordSubmission(outcome cardform.Status, reason cardform.Reason, duration time.Duration) {
	m.submissions.WithLabelValues(outcome.String(), string(reason)).Inc()
	m.submitDuration.WithLabelValues(outcome.String()).Observe(duration.Seconds())
}

func (m *Metrics) RecordIgnoredSubmit() {
	m.ignoredSubmits.Inc()
}

func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }

// SessionClosed decrements the active gauge; expired marks an idle eviction.
func (m *Metrics) SessionClosed(expired bool) {
	m.activeSessions.Dec()
	if expired {
		m.expiredSession.Inc()
	}
}

// Handler returns an HTTP handler exposing the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

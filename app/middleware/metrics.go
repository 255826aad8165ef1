package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Domain counters
	applicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_applications_submitted_total",
			Help: "Total number of campaign applications submitted",
		},
	)
	matchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_matches_created_total",
			Help: "Total number of matches produced by scoring",
		},
	)
	matchesApproved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_matches_approved_total",
			Help: "Total number of matches approved by agencies",
		},
	)
	channelsProvisioned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_channels_provisioned_total",
			Help: "Total number of chat channel provisioning attempts",
		},
		[]string{"outcome"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordApplicationSubmitted bumps the application counter
func RecordApplicationSubmitted() {
	applicationsSubmitted.Inc()
}

// RecordMatchCreated bumps the match counter
func RecordMatchCreated() {
	matchesCreated.Inc()
}

// RecordMatchApproved bumps the approval counter
func RecordMatchApproved() {
	matchesApproved.Inc()
}

// RecordChannelProvisioned bumps the channel provisioning counter
func RecordChannelProvisioned(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	channelsProvisioned.With(prometheus.Labels{"outcome": outcome}).Inc()
}

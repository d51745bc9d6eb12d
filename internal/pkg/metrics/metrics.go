// Package metrics exposes the Prometheus collectors of the engine. Every
// Observe/Inc helper is a no-op until Init has run, so packages may call
// them unconditionally.
package metrics

import (
	"database/sql"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "helperhub_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	orderTransitions    *prometheus.CounterVec
	overrideTransitions *prometheus.CounterVec
	payoutEvents        *prometheus.CounterVec

	sweepRuns    *prometheus.CounterVec
	sweepItems   *prometheus.CounterVec
	sweepLatency *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	notificationsTotal *prometheus.CounterVec
)

// Init registers the collectors with the default registry. db may be nil;
// when set, pool statistics and backlog gauges are exported as well.
func Init(db *sql.DB, logger *slog.Logger) {
	registerOnce.Do(func() {
		orderTransitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "order_transitions_total",
				Help: "Order status transitions by source and target status",
			},
			[]string{"from", "to"},
		)
		overrideTransitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "order_override_transitions_total",
				Help: "Order transitions that used an administrative override",
			},
			[]string{"to"},
		)
		payoutEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payout_events_total",
				Help: "Payout status changes by target status",
			},
			[]string{"status"},
		)

		sweepRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_runs_total",
				Help: "Reconciliation sweep runs by sweep and result",
			},
			[]string{"sweep", "result"},
		)
		sweepItems = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_items_total",
				Help: "Items handled by reconciliation sweeps by outcome",
			},
			[]string{"sweep", "outcome"},
		)
		sweepLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "sweep_latency_seconds",
				Help:    "Reconciliation sweep latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sweep"},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		notificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Dispatched notifications by kind and result",
			},
			[]string{"kind", "result"},
		)

		prometheus.MustRegister(
			orderTransitions,
			overrideTransitions,
			payoutEvents,
			sweepRuns,
			sweepItems,
			sweepLatency,
			httpRequests,
			httpLatency,
			notificationsTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// IncOrderTransition counts one committed order status change.
func IncOrderTransition(from, to string, override bool) {
	if from == "" {
		from = "none"
	}
	if orderTransitions != nil {
		orderTransitions.WithLabelValues(from, to).Inc()
	}
	if override && overrideTransitions != nil {
		overrideTransitions.WithLabelValues(to).Inc()
	}
}

func IncPayoutEvent(status string) {
	if payoutEvents != nil {
		payoutEvents.WithLabelValues(status).Inc()
	}
}

// ObserveSweep records one sweep run and the per-item outcomes it reported.
func ObserveSweep(sweep string, processed, skipped, failed int, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if sweepRuns != nil {
		sweepRuns.WithLabelValues(sweep, result).Inc()
	}
	if sweepLatency != nil {
		sweepLatency.WithLabelValues(sweep).Observe(duration.Seconds())
	}
	if sweepItems != nil {
		sweepItems.WithLabelValues(sweep, "processed").Add(float64(processed))
		sweepItems.WithLabelValues(sweep, "skipped").Add(float64(skipped))
		sweepItems.WithLabelValues(sweep, "failed").Add(float64(failed))
	}
}

func ObserveHTTP(method, route string, code int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

func IncNotification(kind string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(kind, result).Inc()
	}
}

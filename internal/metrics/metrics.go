// Package metrics exposes the Prometheus collectors of the API and workers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP requests by route template, method and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fintrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ExpensesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_expenses_created_total",
			Help: "Total number of expenses created by users, by category",
		},
		[]string{"category"},
	)

	SubscriptionsPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fintrack_subscriptions_paid_total",
			Help: "Total number of subscription payments recorded",
		},
	)

	// Reminder emails by outcome: sent, failed
	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_subscription_reminders_total",
			Help: "Total number of subscription reminder emails by outcome",
		},
		[]string{"result"},
	)

	// Published domain events by type and outcome
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_events_published_total",
			Help: "Total number of domain events published by type and outcome",
		},
		[]string{"type", "result"},
	)

	// Calls to the stock quote provider by endpoint and outcome
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_upstream_requests_total",
			Help: "Total number of requests to external data providers",
		},
		[]string{"endpoint", "result"},
	)
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

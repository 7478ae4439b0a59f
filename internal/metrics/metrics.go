// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// MembershipOperations counts favorite and cart changes.
	// result is one of ok, duplicate, not_found, error.
	MembershipOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_operations_total",
			Help: "Favorite and shopping cart operations by kind, operation and result.",
		},
		[]string{"kind", "op", "result"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Shopping lists generated for download.",
		},
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Distinct items per generated shopping list.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)
)

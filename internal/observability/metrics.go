package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics of the storefront BFF
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Backend REST metrics
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Latency of requests to the UFSCompras backend in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests to the UFSCompras backend",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Category cache metrics
	CategoryCacheLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_cache_loads_total",
			Help: "Category list loads issued to the backend, by result",
		},
		[]string{"result"},
	)

	PurchaseEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_events_published_total",
			Help: "Confirmed-purchase events handed to the broker, by result",
		},
		[]string{"result"},
	)
)

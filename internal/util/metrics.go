package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted together with their ledger entries",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected order requests",
	}, []string{"reason"})

	ExpensesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expenses_recorded_total",
		Help: "Total number of expenses recorded",
	})

	LedgerInconsistenciesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_inconsistencies_total",
		Help: "Total number of order/ledger-entry pairing violations detected by the audit worker",
	})

	DashboardQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_query_latency_seconds",
		Help:    "Latency of dashboard aggregation queries",
		Buckets: prometheus.DefBuckets,
	})

	DashboardCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_cache_hits_total",
		Help: "Total number of dashboard responses served from cache",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

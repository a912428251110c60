package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Table orders folded into the daily revenue archive",
	})

	AccountSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "room_account_saves_total",
		Help: "Room account persistence calls by source (api, beacon)",
	}, []string{"source"})

	OrdersAssignedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_assigned_total",
		Help: "Orders routed onto room accounts by bucket",
	}, []string{"bucket"})

	DayClosesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "day_closes_total",
		Help: "Completed day-close operations",
	})
)

package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntitiesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_entities_created_total",
		Help: "Total number of catalog entities created",
	}, []string{"collection"})

	EntitiesUpdatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_entities_updated_total",
		Help: "Total number of catalog entities updated",
	}, []string{"collection"})

	EntitiesDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_entities_deleted_total",
		Help: "Total number of catalog entities soft-deleted",
	}, []string{"collection"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_validation_failures_total",
		Help: "Total number of rejected writes by entity kind",
	}, []string{"collection"})

	ConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_conflicts_total",
		Help: "Total number of writes rejected by referential constraints",
	}, []string{"collection"})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Total number of catalog searches",
	}, []string{"collection"})

	ViewIncrementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_view_increment_failures_total",
		Help: "Total number of swallowed stats increment failures",
	}, []string{"collection"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Latency of gateway-backed list and search operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "operation"})

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

// Package metrics provides Prometheus metrics for the catalog API.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Catalog Sync Metrics
	ItemsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_items_upserted_total",
			Help: "Total number of item rows written by catalog syncs",
		},
	)

	ItemsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_items_skipped_total",
			Help: "Upstream records skipped for unmappable category or rarity codes",
		},
	)

	CatalogSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Time taken by one full catalog sync",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800},
		},
	)

	// Price Tracker Metrics
	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_price_updates_total",
			Help: "Total number of items whose prices were updated",
		},
	)

	PriceCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_price_cycle_duration_seconds",
			Help:    "Time taken by one full price update cycle",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Skin Index Metrics
	SkinIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_skin_index_size",
			Help: "Number of skins in the cached skin index",
		},
	)

	SkinIndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_skin_index_build_duration_seconds",
			Help:    "Time taken to rebuild the skin index",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Scheduler Metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_job_runs_total",
			Help: "Background job runs by job name",
		},
		[]string{"job"},
	)

	JobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_job_failures_total",
			Help: "Failed background job runs by job name",
		},
		[]string{"job"},
	)

	// Query Engine Metrics
	SnapshotCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_snapshot_cache_hits_total",
			Help: "Locale snapshot reads served from the in-memory cache",
		},
	)

	SnapshotCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_snapshot_cache_misses_total",
			Help: "Locale snapshot reads that went to the store",
		},
	)
)

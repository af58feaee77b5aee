package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_cache_hits_total",
		Help: "Total block cache hits",
	})
	metricCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_cache_misses_total",
		Help: "Total block cache misses",
	})
	metricCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_cache_evictions_total",
		Help: "Total blocks evicted from the cache",
	})
	metricFetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_fetch_attempts_total",
		Help: "Total block fetch attempts, including retries",
	})
	metricFetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_fetch_retries_total",
		Help: "Total block fetch retries after a failed attempt",
	})
	metricFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonal_block_fetch_failures_total",
		Help: "Total block fetches that exhausted the retry budget",
	})
	metricFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zonal_block_fetch_duration_seconds",
		Help:    "Block fetch duration in seconds, successful attempts only",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
)

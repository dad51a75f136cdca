// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "atlas",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	CompositeComputations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "index",
		Name:      "composite_computations_total",
		Help:      "Full composite index computations (cache misses).",
	})

	CompositeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "index",
		Name:      "composite_cache_hits_total",
		Help:      "Composite index requests served from cache.",
	})

	StatsComputations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "index",
		Name:      "stats_computations_total",
		Help:      "Per-criterion global statistics computations.",
	})

	CacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "index",
		Name:      "cache_clears_total",
		Help:      "Explicit engine cache invalidations.",
	})

	ValidationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "geometry",
		Name:      "validation_runs_total",
		Help:      "Geometry batch validation runs.",
	})

	ValidationIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Subsystem: "geometry",
		Name:      "validation_issues_total",
		Help:      "Geometry validation issues by severity.",
	}, []string{"severity"})
)

// Package metrics exposes the engine's Prometheus collectors. All
// collectors register on the default registry and are served by the
// serve command's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistryQueries counts Socrata queries by dataset, strategy, and
	// outcome (hit, empty, error).
	RegistryQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propply",
		Name:      "registry_queries_total",
		Help:      "Registry dataset queries by strategy and outcome.",
	}, []string{"dataset", "strategy", "outcome"})

	// RegistryQuerySeconds observes registry query latency per dataset.
	RegistryQuerySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propply",
		Name:      "registry_query_seconds",
		Help:      "Registry query latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"dataset"})

	// CacheOps counts query-cache lookups by result (hit, miss).
	CacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propply",
		Name:      "query_cache_ops_total",
		Help:      "Query cache lookups by result.",
	}, []string{"result"})

	// Aggregations counts full compliance aggregations by outcome
	// (resolved, not_found).
	Aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propply",
		Name:      "aggregations_total",
		Help:      "Compliance record aggregations by resolution outcome.",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	OutcomeHit      = "hit"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeResolved = "resolved"
	OutcomeNotFound = "not_found"
	ResultCacheHit  = "hit"
	ResultCacheMiss = "miss"
)

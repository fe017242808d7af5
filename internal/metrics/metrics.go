// Package metrics exposes the catalog's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RebuildRuns counts completed rebuild runs by outcome
	RebuildRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rebuild_runs_total",
		Help: "Completed index rebuild runs by outcome.",
	}, []string{"target", "status"})

	// DocumentsScanned counts source documents scanned across rebuild runs
	DocumentsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rebuild_documents_scanned_total",
		Help: "Source documents scanned by rebuild runs.",
	})

	// EntitiesLoaded counts entities bulk-loaded into target indices
	EntitiesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rebuild_entities_loaded_total",
		Help: "Canonical entities loaded into target indices.",
	})

	// RebuildDuration observes wall-clock duration of rebuild runs
	RebuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_rebuild_duration_seconds",
		Help:    "Duration of rebuild runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"target"})
)

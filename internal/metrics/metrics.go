// Package metrics exposes the loader's prometheus instruments. Counters are
// registered on the default registry and served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granary_load_batches_total",
		Help: "Fact load batches by fact type and outcome.",
	}, []string{"fact", "status"})

	FactRowsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granary_fact_rows_loaded_total",
		Help: "Fact rows appended to the warehouse.",
	}, []string{"fact"})

	DimensionRowsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granary_dimension_rows_created_total",
		Help: "Dimension rows created on first reference.",
	}, []string{"dimension"})

	DimensionInsertConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granary_dimension_insert_conflicts_total",
		Help: "Dimension inserts recovered via re-fetch after a unique-constraint conflict.",
	}, []string{"dimension"})

	DuplicateUploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "granary_duplicate_uploads_total",
		Help: "Uploads rejected by the content-hash duplicate gate.",
	})
)

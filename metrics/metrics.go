package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WritesTotal counts successful data writes by detected type class.
	WritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerogal_writes_total",
		Help: "Number of successfully stored data items by type class.",
	}, []string{"type"})

	// WriteBytesTotal counts bytes accepted into the store.
	WriteBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zerogal_write_bytes_total",
		Help: "Total bytes written to primary storage.",
	})

	// PreviewsGenerated counts previews produced by the preview worker.
	PreviewsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerogal_previews_generated_total",
		Help: "Number of previews generated by result.",
	}, []string{"result"})

	// ConversionsTotal counts convert worker outcomes.
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerogal_conversions_total",
		Help: "Number of format conversions by result.",
	}, []string{"result"})

	// ScavengerRemovals counts physical deletions performed by the scavenger.
	ScavengerRemovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zerogal_scavenger_removals_total",
		Help: "Number of records physically removed by the scavenger.",
	})

	// ConsistencyRepairs counts self-healing actions of the consistency sweep.
	ConsistencyRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerogal_consistency_repairs_total",
		Help: "Number of inconsistencies repaired by the consistency sweep.",
	}, []string{"kind"})
)

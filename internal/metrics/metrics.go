package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction outcome labels
const (
	ResultResolved     = "resolved"
	ResultNoPrice      = "no_price_found"
	ResultTeamFailed   = "team_not_resolved"
	ResultSideFailed   = "side_unresolved"
	ResultEmptyCluster = "empty_cluster"
)

var (
	// ExtractionsTotal counts pipeline runs by outcome
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slip_extractions_total",
		Help: "Extraction pipeline runs by outcome",
	}, []string{"result"})

	// MarketSourceTotal counts resolved picks by how the market type was
	// determined, so the shape-inference heuristic's share is measurable
	// against explicitly labeled extractions
	MarketSourceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slip_market_source_total",
		Help: "Resolved picks by market-type provenance (labeled, inferred, manual)",
	}, []string{"source"})

	// SlipLegCount observes slip sizes at finalization
	SlipLegCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slip_finalized_leg_count",
		Help:    "Number of legs on finalized slips",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})
)

package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pagination engine.
var (
	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steam_inventory_pages_total",
		Help: "Inventory pages processed by outcome",
	}, []string{"outcome"}) // "ok", "transport_error", "malformed"

	itemsJoinedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steam_inventory_items_joined_total",
		Help: "Total items produced by joining assets with descriptions",
	})

	assetsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steam_inventory_assets_dropped_total",
		Help: "Total assets dropped because no description matched their classid",
	})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steam_inventory_fetch_duration_seconds",
		Help:    "Duration of a complete inventory fetch by mode",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"mode"}) // "single", "all"
)

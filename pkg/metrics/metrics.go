// Package metrics provides the Prometheus registry and handler for the
// Steam inventory client. All metrics are defined in their respective
// packages (client, inventory, journal) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler exposing all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - steam_requests_total{status} (Counter): Requests by HTTP status or "network_error"
//   - steam_request_duration_seconds{route} (Histogram): Request duration, route is "direct" or "proxy"
//   - steam_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Pagination Metrics (pkg/inventory):
//   - steam_inventory_pages_total{outcome} (Counter): Pages by outcome (ok, transport_error, malformed)
//   - steam_inventory_items_joined_total (Counter): Items produced by the asset/description join
//   - steam_inventory_assets_dropped_total (Counter): Assets without a matching description
//   - steam_inventory_fetch_duration_seconds{mode} (Histogram): Complete fetch duration (single, all)
//
// Journal Metrics (pkg/journal):
//   - steam_journal_writes_total{result} (Counter): Records appended (ok, error)
//   - steam_journal_errors_total{operation} (Counter): Journal operation errors (append, recent)
//
// Example Prometheus Queries:
//
//   # Malformed Page Rate
//   rate(steam_inventory_pages_total{outcome="malformed"}[5m]) /
//   rate(steam_inventory_pages_total[5m])
//
//   # Steam Rate Limiting
//   rate(steam_errors_total{class="rate_limit"}[5m])
//
//   # Dropped Asset Ratio
//   rate(steam_inventory_assets_dropped_total[5m]) /
//   (rate(steam_inventory_items_joined_total[5m]) + rate(steam_inventory_assets_dropped_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(steam_request_duration_seconds_bucket[5m]))

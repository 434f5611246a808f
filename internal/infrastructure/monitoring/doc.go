// Package monitoring provides Prometheus metrics for the daemon: status
// API request counts and latencies, resolution outcomes and score
// distribution, engine actions, alias index size and rebuilds, and bus
// connectivity.
//
// Each Metrics instance owns its registry; the scrape handler is exposed
// through Handler.
package monitoring

// Package metrics holds the relay's Prometheus instruments in a private
// registry and serves them in the exposition format negotiated with the
// scraper.
package metrics

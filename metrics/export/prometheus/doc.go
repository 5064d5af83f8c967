// Package prometheus exposes authpipe stage metrics through the Prometheus
// client library.
//
// # Architecture boundaries
//
// The collector is read-only: every scrape takes a detached snapshot from
// the [MetricsSource]. It never mutates stage state and never blocks the
// exchange hot path.
package prometheus

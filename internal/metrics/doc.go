// Package metrics exposes per-run pipeline counters in the Prometheus text
// format. A medialift run is a short-lived batch job, so instead of serving
// /metrics the registry is written to a node-exporter textfile collector path
// once the run finishes.
package metrics

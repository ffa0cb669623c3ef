// Package metrics renders the completed run's counters in Prometheus text
// exposition format so scheduled tbpush invocations can drop a file for the
// node-exporter textfile collector.
package metrics

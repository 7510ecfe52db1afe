// Package monitoring provides Prometheus metrics for the engine client.
//
// Collected series:
//   - engine commands by operation and outcome, with round-trip latency
//   - shared-memory segments created and bytes mapped
//   - engine process starts and forced terminations
//
// Metrics registration is per-collector (prometheus.NewRegistry compatible)
// so embedding applications can attach the collector to their own registry.
package monitoring

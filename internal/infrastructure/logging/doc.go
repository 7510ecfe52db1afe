// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// The channel logs engine lifecycle events (start, shutdown escalation) at
// info/warn and discarded protocol noise at debug; keep the level above
// debug in production so a chatty engine cannot flood the log.
package logging

// Command pivotctl is a small harness around the engine client.
//
// It starts the engine, runs one command, prints the raw reply line, and
// shuts the engine down. Useful for smoke-testing an engine build and for
// exercising binary discovery.
//
// Usage:
//
//	pivotctl [-config sdk.toml] [-engine /path/to/pivot_engine] \
//	         [-op sync_license] [-timeout 30s]
//
// The engine binary is discovered in the usual order when -engine is not
// given: PIVOT_ENGINE_PATH, the execution PATH, then the bundled directory
// from the config file.
package main

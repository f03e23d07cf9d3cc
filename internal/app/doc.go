// Package app wires application dependencies for the CLI.
//
// It builds the logger, metrics registry, bridge and wasm host from Config,
// exposing them via the Wire struct for commands to use. When a metrics
// address is configured the Wire also serves Prometheus metrics and
// liveness/readiness checks.
package app

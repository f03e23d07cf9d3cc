// Package commands defines the sodiumbridge CLI and wires dependencies for subcommands.
//
// Commands
//
//   - ops      List operations with their argument roles and output rule
//   - init     Run native initialisation and report idempotence
//   - invoke   Call one operation with hex or JSON arguments
//   - wasm     Run a WASI guest with the "sodium" host module
//
// # Implementation
//
// The root command builds the app wiring (logger, metrics registry, bridge,
// wasm host) before any subcommand runs and tears it down afterwards. With
// --metrics-addr the metrics and health endpoints are served for the life of
// the command.
package commands

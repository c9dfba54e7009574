// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, logging and debug introspection for hioload-rt.
//
// Provides concurrent-safe state handling primitives including:
//   - Validated runtime configuration with defaults
//   - Counter and gauge metrics with snapshot export
//   - Named debug probes
//   - The package-wide zap logger
package control

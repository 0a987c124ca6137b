// Package cli wires the cobra command tree: apply, plan, rollback, doctor,
// config, and version. Commands collect options from flags and the user
// settings file, then delegate to internal/optimize — all process-exit
// decisions stay here at the outermost layer.
package cli

// Package cargocfg synthesizes the Cargo configuration fragment for a set of
// tool selections and merges it safely into a project's .cargo/config.toml:
// foreign keys are preserved verbatim, every mutation is preceded by a
// backup, writes are atomic, and a persisted record makes the change fully
// revertible.
package cargocfg

// TargetConfig holds the managed keys under one [target.<triple>] table.
type TargetConfig struct {
	// Linker is the value for the target's `linker` key.
	Linker string
	// Rustflags is the value for the target's `rustflags` list. Managed
	// rustflags are owned outright: an existing list is replaced, never
	// appended to.
	Rustflags []string
}

// Document is the semantic configuration this tool intends to write. It
// contains only managed keys — the tool never claims ownership of keys it
// did not introduce.
//
// Managed keys: target.<triple>.linker, target.<triple>.rustflags,
// build.jobs.
type Document struct {
	// Targets maps target triples to their managed linker settings.
	Targets map[string]TargetConfig
	// Jobs is the build.jobs value; 0 means the key is not emitted.
	Jobs int
	// EnvHints are environment variables the caller should set to activate a
	// cache wrapper (e.g. RUSTC_WRAPPER=sccache). They ride on the document
	// for reporting but are never written to the config file: environment is
	// process-wide state the caller owns.
	EnvHints map[string]string
}

// Empty reports whether the document would write nothing.
func (d Document) Empty() bool {
	return len(d.Targets) == 0 && d.Jobs == 0
}

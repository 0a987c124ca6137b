package cargocfg

import (
	"github.com/cargotune-labs/cargotune/internal/toolchain"
)

// DefaultJobsPercent is the fraction of logical CPUs given to build.jobs
// when no profile or setting overrides it.
const DefaultJobsPercent = 75

// SynthesisInput carries everything the synthesizer needs. All fields are
// plain values; synthesis is deterministic and side-effect free.
type SynthesisInput struct {
	// Linker and Cache are the per-category selections from probing.
	Linker toolchain.Selection
	Cache  toolchain.Selection
	// Platform is the GOOS identifier; Triples are the Rust target triples
	// in play (at least the host triple).
	Platform string
	Triples  []string
	// LogicalCPUs is the host's logical core count.
	LogicalCPUs int
	// JobsPercent is the CPU fraction for build.jobs; 0 means
	// DefaultJobsPercent, negative disables the jobs key entirely.
	JobsPercent int
	// Env is the explicit environment-override map for the run. A caller
	// that already routes compilation through a wrapper (RUSTC_WRAPPER set)
	// keeps its wrapper: no cache hint is emitted over it.
	Env map[string]string
}

// Synthesize turns selections plus host facts into the Document of managed
// keys. No selection in a category emits nothing for that category.
func Synthesize(in SynthesisInput) Document {
	doc := Document{}

	if tc, ok := linkerConfig(in.Linker, in.Platform); ok {
		doc.Targets = make(map[string]TargetConfig, len(in.Triples))
		for _, triple := range in.Triples {
			doc.Targets[triple] = tc
		}
	}

	if jobs := JobsFor(in.LogicalCPUs, in.JobsPercent); jobs > 0 {
		doc.Jobs = jobs
	}

	if in.Cache.Chosen != nil {
		if _, taken := in.Env["RUSTC_WRAPPER"]; !taken {
			doc.EnvHints = map[string]string{"RUSTC_WRAPPER": in.Cache.Chosen.Name}
		}
	}

	return doc
}

// linkerConfig maps a linker selection to the platform's key shape. On the
// MSVC target shape the linker executable is overridden directly; on
// ELF/Unix-like targets clang drives the link and rustflags pick the backend.
func linkerConfig(sel toolchain.Selection, platform string) (TargetConfig, bool) {
	if sel.Chosen == nil {
		return TargetConfig{}, false
	}

	if platform == "windows" {
		switch sel.Chosen.Name {
		case "rust-lld":
			return TargetConfig{Linker: "rust-lld"}, true
		default:
			return TargetConfig{Linker: sel.Chosen.Name + ".exe"}, true
		}
	}

	return TargetConfig{
		Linker:    "clang",
		Rustflags: []string{"-C", "link-arg=-fuse-ld=" + sel.Chosen.Name},
	}, true
}

// JobsFor computes build.jobs as a bounded fraction of logical CPUs: never
// less than 1, never more than the CPU count. A negative percent disables
// the key (returns 0).
func JobsFor(cpus, percent int) int {
	if percent < 0 {
		return 0
	}
	if percent == 0 {
		percent = DefaultJobsPercent
	}
	if cpus < 1 {
		cpus = 1
	}
	jobs := cpus * percent / 100
	if jobs < 1 {
		jobs = 1
	}
	if jobs > cpus {
		jobs = cpus
	}
	return jobs
}

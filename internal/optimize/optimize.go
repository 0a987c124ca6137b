// Package optimize runs the full tuning pipeline: probe the host's
// toolchain, select the best tool per category, synthesize the Cargo
// configuration fragment, and hand it to the safe writer. Plan stops before
// the writer; Rollback restores a previous run's state.
package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cargotune-labs/cargotune/internal/cargocfg"
	"github.com/cargotune-labs/cargotune/internal/hostinfo"
	"github.com/cargotune-labs/cargotune/internal/profile"
	"github.com/cargotune-labs/cargotune/internal/toolchain"
)

// Options configures one pipeline run. All state the pipeline touches is
// named here explicitly — working directory, environment overrides, probe
// timeout — so runs are isolated and testable side by side.
type Options struct {
	// Dir is the project root. Required.
	Dir string
	// Env holds explicit environment overrides; the pipeline never reads
	// ambient os.Getenv.
	Env map[string]string
	// ProbeTimeout bounds each tool probe; zero uses the prober default.
	ProbeTimeout time.Duration
	// JobsPercent overrides the profile's CPU fraction when non-zero.
	JobsPercent int

	// Prober and Host are seams for tests; zero values touch the real host.
	Prober *toolchain.Prober
	Host   *hostinfo.Collector
}

// Report is the outcome of Plan or Apply.
type Report struct {
	// Linker and Cache are the per-category selections.
	Linker toolchain.Selection
	Cache  toolchain.Selection
	// Probes are the raw per-candidate results, in candidate order.
	Probes []toolchain.Result
	// Document is the synthesized configuration.
	Document cargocfg.Document
	// ConfigPath is the managed file the document targets.
	ConfigPath string
	// Backup locates the pre-change state; nil for Plan.
	Backup *cargocfg.BackupRecord
}

// Plan runs Probe → Select → Synthesize and reports the would-be document
// without touching the filesystem writer at all.
func Plan(ctx context.Context, opts Options) (*Report, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("project directory is required")
	}
	return run(ctx, opts)
}

// Apply runs the full pipeline and writes the merged configuration. The
// returned report carries the backup record for a later rollback.
func Apply(ctx context.Context, opts Options) (*Report, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("project directory is required")
	}

	report, err := run(ctx, opts)
	if err != nil {
		return nil, err
	}

	writer := cargocfg.NewWriter(opts.Dir)
	rec, err := writer.Apply(report.Document)
	if err != nil {
		return nil, err
	}
	report.Backup = rec

	log.Info("configuration applied",
		"path", report.ConfigPath,
		"linker", selectionName(report.Linker),
		"cache", selectionName(report.Cache),
		"jobs", report.Document.Jobs)
	return report, nil
}

// Rollback restores the project's config to its pre-Apply state.
func Rollback(opts Options) (cargocfg.RollbackResult, error) {
	if opts.Dir == "" {
		return cargocfg.RollbackResult{}, fmt.Errorf("project directory is required")
	}
	return cargocfg.NewWriter(opts.Dir).Rollback()
}

func run(ctx context.Context, opts Options) (*Report, error) {
	prof, err := profile.Load(opts.Dir)
	if err != nil {
		return nil, err
	}

	host := opts.Host
	if host == nil {
		host = &hostinfo.Collector{}
	}
	if host.Env == nil {
		host.Env = opts.Env
	}
	facts := host.Collect(ctx)

	prober := opts.Prober
	if prober == nil {
		prober = &toolchain.Prober{}
	}
	if prober.Timeout == 0 {
		prober.Timeout = opts.ProbeTimeout
	}
	results := prober.Probe(ctx, toolchain.ForPlatform(facts.Platform))

	linker, err := selectUnless(results, toolchain.CategoryLinker, prof.DisableLinker)
	if err != nil {
		return nil, err
	}
	cache, err := selectUnless(results, toolchain.CategoryCache, prof.DisableCache)
	if err != nil {
		return nil, err
	}

	jobsPercent := prof.JobsPercent
	if opts.JobsPercent != 0 {
		jobsPercent = opts.JobsPercent
	}

	doc := cargocfg.Synthesize(cargocfg.SynthesisInput{
		Linker:      linker,
		Cache:       cache,
		Platform:    facts.Platform,
		Triples:     append([]string{facts.Triple}, prof.ExtraTargets...),
		LogicalCPUs: facts.LogicalCPUs,
		JobsPercent: jobsPercent,
		Env:         facts.Env,
	})

	return &Report{
		Linker:     linker,
		Cache:      cache,
		Probes:     results,
		Document:   doc,
		ConfigPath: cargocfg.NewWriter(opts.Dir).ConfigPath(),
	}, nil
}

func selectUnless(results []toolchain.Result, cat toolchain.Category, disabled bool) (toolchain.Selection, error) {
	if disabled {
		return toolchain.Selection{Category: cat}, nil
	}
	return toolchain.Select(results, cat)
}

func selectionName(sel toolchain.Selection) string {
	if sel.Chosen == nil {
		return "none"
	}
	return sel.Chosen.Name
}

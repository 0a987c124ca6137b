package toolchain

import (
	"context"
	"os/exec"
	"regexp"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
)

// DefaultProbeTimeout bounds each version invocation during probing.
const DefaultProbeTimeout = 3 * time.Second

// Result is the outcome of checking one Candidate against the live host.
// Results are created fresh per run and never persisted.
type Result struct {
	Candidate Candidate
	// Present is true when the tool is invocable and meets its version floor.
	Present bool
	// Path is the resolved executable path, populated only when Present.
	Path string
	// Version is the parsed tool version, when one could be read.
	Version string
}

// Prober checks candidates against the host. The zero value probes the real
// environment; LookPath and RunCommand are seams for tests.
//
// Probing never mutates files. A failed or timed-out probe maps to
// Present=false — tool absence is an expected outcome, not a fault.
type Prober struct {
	// LookPath resolves an executable name; defaults to exec.LookPath.
	LookPath func(name string) (string, error)
	// RunCommand executes a resolved binary; defaults to exec.CommandContext.
	RunCommand func(ctx context.Context, path string, args ...string) ([]byte, error)
	// Timeout bounds each version invocation. Zero means DefaultProbeTimeout.
	Timeout time.Duration
}

// Probe checks every given candidate and returns one Result each, sorted by
// candidate name and category so that downstream selection is independent of
// probe order.
func (p *Prober) Probe(ctx context.Context, cands []Candidate) []Result {
	results := make([]Result, 0, len(cands))
	for _, c := range cands {
		results = append(results, p.probeOne(ctx, c))
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Candidate, results[j].Candidate
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return results
}

func (p *Prober) probeOne(ctx context.Context, c Candidate) Result {
	res := Result{Candidate: c}

	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var path string
	for _, bin := range c.Binaries {
		if found, err := lookPath(bin); err == nil {
			path = found
			break
		}
	}
	if path == "" {
		log.Debug("tool not on PATH", "tool", c.Name, "category", c.Category)
		return res
	}

	if len(c.VersionArgs) == 0 {
		res.Present = true
		res.Path = path
		return res
	}

	out, err := p.runVersion(ctx, path, c.VersionArgs)
	if err != nil {
		// Present on PATH but not invocable; treat as absent.
		log.Debug("version probe failed", "tool", c.Name, "path", path, "err", err)
		return res
	}

	version := extractVersion(string(out))
	if c.MinVersion != "" && !meetsMinVersion(version, c.MinVersion) {
		log.Debug("tool below version floor", "tool", c.Name,
			"version", version, "min", c.MinVersion)
		return res
	}

	res.Present = true
	res.Path = path
	res.Version = version
	return res
}

func (p *Prober) runVersion(ctx context.Context, path string, args []string) ([]byte, error) {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := p.RunCommand
	if run == nil {
		run = func(ctx context.Context, path string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, path, args...).Output()
		}
	}
	return run(ctx, path, args...)
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// extractVersion pulls the first dotted version number out of arbitrary
// --version output ("mold 2.4.0 (compatible with GNU ld)" → "2.4.0").
func extractVersion(out string) string {
	return versionPattern.FindString(out)
}

// meetsMinVersion reports whether version satisfies the semver floor. An
// unparseable or missing version fails the gate: a floor exists because older
// releases misbehave, so an unreadable version is not trusted.
func meetsMinVersion(version, min string) bool {
	if version == "" {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	floor, err := semver.NewVersion(min)
	if err != nil {
		return false
	}
	return !v.LessThan(floor)
}

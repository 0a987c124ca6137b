// Package hostinfo gathers the host facts the synthesizer consumes: platform
// identifier, logical CPU count, and the Rust target triple. Facts are
// collected once per run and passed explicitly — nothing downstream reads
// ambient process state.
package hostinfo

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/cpuid/v2"
)

// DefaultDetectTimeout bounds the rustc invocation used for triple detection.
const DefaultDetectTimeout = 3 * time.Second

// Facts describes the host as seen by one optimization run.
type Facts struct {
	// Platform is the OS identifier (GOOS: "linux", "darwin", "windows").
	Platform string
	// LogicalCPUs is the logical core count, always >= 1.
	LogicalCPUs int
	// Triple is the Rust target triple configuration is emitted for.
	Triple string
	// Env holds explicit environment overrides threaded through the run in
	// place of ambient os.Getenv lookups.
	Env map[string]string
}

// Collector produces Facts. The zero value collects from the live host;
// fields exist as seams for tests.
type Collector struct {
	// Platform overrides runtime.GOOS when non-empty.
	Platform string
	// RunCommand overrides subprocess execution; defaults to exec.CommandContext.
	RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
	// Timeout bounds the rustc triple detection. Zero means DefaultDetectTimeout.
	Timeout time.Duration
	// Env is copied into the collected Facts.
	Env map[string]string
}

// Collect gathers host facts. Triple detection via rustc is best-effort: on
// any failure the static per-platform default is used instead.
func (c *Collector) Collect(ctx context.Context) Facts {
	platform := c.Platform
	if platform == "" {
		platform = runtime.GOOS
	}

	facts := Facts{
		Platform:    platform,
		LogicalCPUs: LogicalCPUs(),
		Triple:      DefaultTriple(platform),
		Env:         c.Env,
	}

	if triple, err := c.detectTriple(ctx); err == nil && triple != "" {
		facts.Triple = triple
	} else if err != nil {
		log.Debug("rustc triple detection failed, using platform default",
			"platform", platform, "default", facts.Triple, "err", err)
	}

	return facts
}

// LogicalCPUs returns the logical core count of the host, never less than 1.
func LogicalCPUs() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	// cpuid reports 0 on some virtualized or non-x86 hosts.
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// DefaultTriple returns the conventional host triple for a platform.
func DefaultTriple(platform string) string {
	arch := "x86_64"
	if runtime.GOARCH == "arm64" {
		arch = "aarch64"
	}
	switch platform {
	case "windows":
		return arch + "-pc-windows-msvc"
	case "darwin":
		return arch + "-apple-darwin"
	default:
		return arch + "-unknown-linux-gnu"
	}
}

// detectTriple asks the installed rustc for its host triple by parsing the
// "host:" line of `rustc -vV` output.
func (c *Collector) detectTriple(ctx context.Context) (string, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultDetectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := c.RunCommand
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		}
	}

	out, err := run(ctx, "rustc", "-vV")
	if err != nil {
		return "", err
	}
	return parseHostTriple(string(out)), nil
}

func parseHostTriple(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "host:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

package hostinfo

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLogicalCPUsAtLeastOne(t *testing.T) {
	if n := LogicalCPUs(); n < 1 {
		t.Errorf("LogicalCPUs() = %d", n)
	}
}

func TestDefaultTriple(t *testing.T) {
	cases := map[string]string{
		"linux":   "unknown-linux-gnu",
		"darwin":  "apple-darwin",
		"windows": "pc-windows-msvc",
	}
	for platform, suffix := range cases {
		triple := DefaultTriple(platform)
		if !strings.HasSuffix(triple, suffix) {
			t.Errorf("DefaultTriple(%q) = %q, want suffix %q", platform, triple, suffix)
		}
	}
}

func TestCollectUsesRustcHostTriple(t *testing.T) {
	c := &Collector{
		Platform: "linux",
		RunCommand: func(_ context.Context, name string, args ...string) ([]byte, error) {
			if name != "rustc" {
				t.Errorf("unexpected command %q", name)
			}
			return []byte("rustc 1.79.0 (129f3b996 2024-06-10)\nbinary: rustc\nhost: riscv64gc-unknown-linux-gnu\nrelease: 1.79.0\n"), nil
		},
	}

	facts := c.Collect(context.Background())
	if facts.Triple != "riscv64gc-unknown-linux-gnu" {
		t.Errorf("Triple = %q", facts.Triple)
	}
	if facts.Platform != "linux" {
		t.Errorf("Platform = %q", facts.Platform)
	}
}

func TestCollectFallsBackWithoutRustc(t *testing.T) {
	c := &Collector{
		Platform: "linux",
		RunCommand: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("rustc: not found")
		},
	}

	facts := c.Collect(context.Background())
	if facts.Triple != DefaultTriple("linux") {
		t.Errorf("Triple = %q, want platform default", facts.Triple)
	}
	if facts.LogicalCPUs < 1 {
		t.Errorf("LogicalCPUs = %d", facts.LogicalCPUs)
	}
}

func TestCollectCarriesEnvOverrides(t *testing.T) {
	env := map[string]string{"RUSTC_WRAPPER": "my-wrapper"}
	c := &Collector{
		Platform: "linux",
		Env:      env,
		RunCommand: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("no rustc")
		},
	}
	facts := c.Collect(context.Background())
	if facts.Env["RUSTC_WRAPPER"] != "my-wrapper" {
		t.Error("env overrides were not carried into facts")
	}
}

func TestParseHostTriple(t *testing.T) {
	if got := parseHostTriple("no host line here\n"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := parseHostTriple("host: x86_64-apple-darwin\n"); got != "x86_64-apple-darwin" {
		t.Errorf("got %q", got)
	}
}

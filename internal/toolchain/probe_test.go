package toolchain

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// fakeHost builds a prober whose PATH and version outputs are fixed maps.
func fakeHost(path map[string]string, versions map[string]string) *Prober {
	return &Prober{
		LookPath: func(name string) (string, error) {
			if p, ok := path[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		RunCommand: func(_ context.Context, bin string, _ ...string) ([]byte, error) {
			if out, ok := versions[bin]; ok {
				return []byte(out), nil
			}
			return nil, errors.New("exec failed")
		},
	}
}

func findResult(t *testing.T, results []Result, name string) Result {
	t.Helper()
	for _, r := range results {
		if r.Candidate.Name == name {
			return r
		}
	}
	t.Fatalf("no result for %q", name)
	return Result{}
}

func TestProbeAbsentTool(t *testing.T) {
	p := fakeHost(nil, nil)
	results := p.Probe(context.Background(), ForPlatform("linux"))

	if len(results) != len(ForPlatform("linux")) {
		t.Fatalf("got %d results, want %d", len(results), len(ForPlatform("linux")))
	}
	for _, r := range results {
		if r.Present {
			t.Errorf("%q reported present on an empty host", r.Candidate.Name)
		}
		if r.Path != "" {
			t.Errorf("%q has a path despite being absent", r.Candidate.Name)
		}
	}
}

func TestProbePresentWithVersion(t *testing.T) {
	p := fakeHost(
		map[string]string{"mold": "/usr/bin/mold"},
		map[string]string{"/usr/bin/mold": "mold 2.4.0 (compatible with GNU ld)"},
	)
	results := p.Probe(context.Background(), ForPlatform("linux"))

	mold := findResult(t, results, "mold")
	if !mold.Present {
		t.Fatal("mold should be present")
	}
	if mold.Path != "/usr/bin/mold" {
		t.Errorf("Path = %q", mold.Path)
	}
	if mold.Version != "2.4.0" {
		t.Errorf("Version = %q, want 2.4.0", mold.Version)
	}
}

func TestProbeFailedVersionInvocationIsAbsent(t *testing.T) {
	// On PATH, but running --version fails: treated as absent, not an error.
	p := fakeHost(map[string]string{"mold": "/usr/bin/mold"}, nil)
	results := p.Probe(context.Background(), ForPlatform("linux"))

	if findResult(t, results, "mold").Present {
		t.Error("tool with failing version probe should count as absent")
	}
}

func TestProbeVersionFloor(t *testing.T) {
	// sccache has a 0.3.0 floor.
	p := fakeHost(
		map[string]string{"sccache": "/usr/bin/sccache"},
		map[string]string{"/usr/bin/sccache": "sccache 0.2.15"},
	)
	results := p.Probe(context.Background(), ForPlatform("linux"))
	if findResult(t, results, "sccache").Present {
		t.Error("sccache below the version floor should count as absent")
	}

	p = fakeHost(
		map[string]string{"sccache": "/usr/bin/sccache"},
		map[string]string{"/usr/bin/sccache": "sccache 0.7.4"},
	)
	results = p.Probe(context.Background(), ForPlatform("linux"))
	if !findResult(t, results, "sccache").Present {
		t.Error("sccache above the version floor should be present")
	}
}

func TestProbeTimeoutIsAbsent(t *testing.T) {
	p := &Prober{
		LookPath: func(string) (string, error) { return "/usr/bin/sccache", nil },
		RunCommand: func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
		Timeout: 10 * time.Millisecond,
	}
	cands := []Candidate{{
		Name: "sccache", Category: CategoryCache, Platforms: []string{"linux"},
		Rank: 1, Binaries: []string{"sccache"}, VersionArgs: []string{"--version"},
	}}

	results := p.Probe(context.Background(), cands)
	if results[0].Present {
		t.Error("timed-out probe should count as absent")
	}
}

func TestProbeNoVersionArgsPathHitSuffices(t *testing.T) {
	// gold has no version invocation; a PATH hit alone makes it present.
	p := fakeHost(map[string]string{"ld.gold": "/usr/bin/ld.gold"}, nil)
	results := p.Probe(context.Background(), ForPlatform("linux"))

	gold := findResult(t, results, "gold")
	if !gold.Present {
		t.Fatal("gold should be present via ld.gold")
	}
	if gold.Path != "/usr/bin/ld.gold" {
		t.Errorf("Path = %q", gold.Path)
	}
}

func TestProbeResultsSortedByCandidate(t *testing.T) {
	p := fakeHost(nil, nil)
	results := p.Probe(context.Background(), ForPlatform("linux"))

	sorted := sort.SliceIsSorted(results, func(i, j int) bool {
		a, b := results[i].Candidate, results[j].Candidate
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	if !sorted {
		t.Error("results are not sorted by category+name")
	}
}

func TestExtractVersion(t *testing.T) {
	cases := map[string]string{
		"mold 2.4.0 (compatible with GNU ld)":      "2.4.0",
		"LLD 17.0.6 (compatible with GNU linkers)": "17.0.6",
		"sccache 0.7.4":                            "0.7.4",
		"ccache version 4.8\n":                     "4.8",
		"no digits here":                           "",
	}
	for in, want := range cases {
		if got := extractVersion(in); got != want {
			t.Errorf("extractVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

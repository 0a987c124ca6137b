// Package toolchain enumerates the external tools that can speed up a Cargo
// build (fast linkers, compiler caches), probes the host for their presence,
// and selects the best available tool per category by a fixed preference
// order.
package toolchain

import "fmt"

// Category classifies what role a candidate tool plays.
type Category string

const (
	// CategoryLinker covers link-step replacements (mold, lld, gold, ...).
	CategoryLinker Category = "linker"
	// CategoryCache covers compiler-cache wrappers (sccache, ccache).
	CategoryCache Category = "cache"
)

// Candidate is one external tool option. Candidates live in the static table
// below; they are compiled in and never mutated at runtime.
type Candidate struct {
	// Name identifies the tool ("mold", "lld", "sccache", ...).
	Name string
	// Category is the role this tool fills.
	Category Category
	// Platforms lists the GOOS values where this candidate is considered.
	Platforms []string
	// Rank orders preference within a category+platform pair; lower wins.
	// Ranks must be unique per category+platform — ValidateTable enforces it.
	Rank int
	// Binaries are the executable names probed on PATH, first hit wins.
	Binaries []string
	// VersionArgs, when non-empty, are passed to the resolved binary to read
	// its version. Empty means a PATH hit alone counts as present.
	VersionArgs []string
	// MinVersion, when non-empty, is a semver floor: an installed tool older
	// than this is treated as absent.
	MinVersion string
}

// AppliesTo reports whether the candidate is considered on the given platform.
func (c Candidate) AppliesTo(platform string) bool {
	for _, p := range c.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// InstallHint returns a short human instruction for installing the tool.
func (c Candidate) InstallHint() string {
	switch c.Name {
	case "mold":
		return "sudo apt-get install mold (Ubuntu 22.04+) or build from https://github.com/rui314/mold"
	case "lld":
		return "sudo apt-get install lld, or brew install llvm on macOS"
	case "gold":
		return "sudo apt-get install binutils-gold"
	case "rust-lld":
		return "bundled with the Rust toolchain; install Rust via rustup"
	case "lld-link":
		return "scoop install llvm or download from https://releases.llvm.org/"
	case "sccache":
		return "cargo install sccache --locked"
	case "ccache":
		return "sudo apt-get install ccache, or brew install ccache on macOS"
	default:
		return "check your package manager for " + c.Name
	}
}

// candidates is the full static table. rust-lld is special: it ships inside
// the Rust toolchain and is invoked by rustc, so its probe looks for rustc
// itself rather than a rust-lld binary on PATH.
var candidates = []Candidate{
	{
		Name:        "mold",
		Category:    CategoryLinker,
		Platforms:   []string{"linux"},
		Rank:        1,
		Binaries:    []string{"mold", "ld.mold"},
		VersionArgs: []string{"--version"},
		MinVersion:  "1.0.0",
	},
	{
		Name:        "lld",
		Category:    CategoryLinker,
		Platforms:   []string{"linux"},
		Rank:        2,
		Binaries:    []string{"lld", "ld.lld"},
		VersionArgs: []string{"--version"},
	},
	{
		Name:      "gold",
		Category:  CategoryLinker,
		Platforms: []string{"linux"},
		Rank:      3,
		Binaries:  []string{"gold", "ld.gold"},
	},
	{
		Name:        "lld",
		Category:    CategoryLinker,
		Platforms:   []string{"darwin"},
		Rank:        1,
		Binaries:    []string{"ld64.lld", "lld"},
		VersionArgs: []string{"--version"},
	},
	{
		Name:      "rust-lld",
		Category:  CategoryLinker,
		Platforms: []string{"windows"},
		Rank:      1,
		Binaries:  []string{"rustc"},
	},
	{
		Name:        "lld-link",
		Category:    CategoryLinker,
		Platforms:   []string{"windows"},
		Rank:        2,
		Binaries:    []string{"lld-link", "lld-link.exe"},
		VersionArgs: []string{"--version"},
	},
	{
		Name:        "sccache",
		Category:    CategoryCache,
		Platforms:   []string{"linux", "darwin", "windows"},
		Rank:        1,
		Binaries:    []string{"sccache"},
		VersionArgs: []string{"--version"},
		MinVersion:  "0.3.0",
	},
	{
		Name:        "ccache",
		Category:    CategoryCache,
		Platforms:   []string{"linux", "darwin"},
		Rank:        2,
		Binaries:    []string{"ccache"},
		VersionArgs: []string{"--version"},
	},
}

// Candidates returns the full static table.
func Candidates() []Candidate {
	return candidates
}

// ForPlatform returns the candidates considered on a platform, in table order.
func ForPlatform(platform string) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.AppliesTo(platform) {
			out = append(out, c)
		}
	}
	return out
}

// ValidateTable checks the static-table invariant: within each
// category+platform pair, ranks are unique. A violation is a programming
// error in the table, not a runtime condition, and is caught by tests.
func ValidateTable() error {
	return validate(candidates)
}

func validate(table []Candidate) error {
	type slot struct {
		category Category
		platform string
		rank     int
	}
	seen := make(map[slot]string)
	for _, c := range table {
		if len(c.Binaries) == 0 {
			return fmt.Errorf("candidate %q has no probe binaries", c.Name)
		}
		for _, p := range c.Platforms {
			s := slot{c.Category, p, c.Rank}
			if prev, ok := seen[s]; ok {
				return fmt.Errorf("rank conflict: %q and %q share rank %d for %s/%s",
					prev, c.Name, c.Rank, c.Category, p)
			}
			seen[s] = c.Name
		}
	}
	return nil
}

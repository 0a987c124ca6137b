// Package profile reads the optional per-project tuning profile
// (cargotune.yaml in the project root). The profile lets a project pin its
// own parallelism fraction, opt out of a category, or request linker
// settings for extra target triples. An absent file yields defaults; an
// invalid one is a hard error naming the path and every schema issue.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/cargotune-labs/cargotune/internal/cargocfg"
)

// FileName is the profile file looked up in the project root.
const FileName = "cargotune.yaml"

// Profile is a project's tuning preferences.
type Profile struct {
	// JobsPercent is the CPU fraction for build.jobs, 1-100.
	JobsPercent int `yaml:"jobs_percent"`
	// DisableLinker skips linker selection for this project.
	DisableLinker bool `yaml:"disable_linker"`
	// DisableCache skips compiler-cache selection for this project.
	DisableCache bool `yaml:"disable_cache"`
	// ExtraTargets are additional triples to emit linker settings for.
	ExtraTargets []string `yaml:"extra_targets"`
}

// Default returns the profile used when no file is present.
func Default() *Profile {
	return &Profile{JobsPercent: cargocfg.DefaultJobsPercent}
}

// Load reads and validates the profile in dir. A missing file returns
// Default(). A file that fails schema validation returns an error listing
// each issue.
func Load(dir string) (*Profile, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating profile %s: %w", path, err)
	}
	if !result.Valid {
		var lines []string
		for _, issue := range result.Issues {
			lines = append(lines, fmt.Sprintf("  %s: %s", issue.Path, issue.Message))
		}
		return nil, fmt.Errorf("invalid profile %s:\n%s", path, strings.Join(lines, "\n"))
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if p.JobsPercent == 0 {
		p.JobsPercent = cargocfg.DefaultJobsPercent
	}
	return p, nil
}

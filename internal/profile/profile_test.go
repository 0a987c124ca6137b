package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAbsentFileReturnsDefaults(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.JobsPercent != 75 {
		t.Errorf("JobsPercent = %d, want 75", p.JobsPercent)
	}
	if p.DisableLinker || p.DisableCache {
		t.Error("defaults must not disable any category")
	}
}

func TestLoadValidProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, `jobs_percent: 50
disable_cache: true
extra_targets:
  - aarch64-unknown-linux-gnu
`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.JobsPercent != 50 {
		t.Errorf("JobsPercent = %d", p.JobsPercent)
	}
	if !p.DisableCache || p.DisableLinker {
		t.Errorf("disables = %v/%v", p.DisableLinker, p.DisableCache)
	}
	if len(p.ExtraTargets) != 1 || p.ExtraTargets[0] != "aarch64-unknown-linux-gnu" {
		t.Errorf("ExtraTargets = %v", p.ExtraTargets)
	}
}

func TestLoadRejectsOutOfRangeJobsPercent(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "jobs_percent: 250\n")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), FileName) {
		t.Errorf("error should name the offending file: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "jobs_precent: 50\n") // typo'd key

	if _, err := Load(dir); err == nil {
		t.Fatal("unknown keys must be rejected, not silently ignored")
	}
}

func TestValidateEmptyFileIsValid(t *testing.T) {
	result, err := Validate(nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.Valid {
		t.Error("an empty profile should be valid")
	}
}

func TestValidateReportsIssuePaths(t *testing.T) {
	result, err := Validate([]byte("disable_linker: 3\n"))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
	found := false
	for _, issue := range result.Issues {
		if issue.Path == "/disable_linker" {
			found = true
		}
	}
	if !found {
		t.Errorf("no issue names /disable_linker: %+v", result.Issues)
	}
}

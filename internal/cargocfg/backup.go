package cargocfg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	backupSuffix = ".cargotune-backup"
	recordSuffix = ".cargotune.json"
)

// BackupRecord preserves what Apply found on disk so a later rollback can
// restore it exactly. It is persisted as a JSON sidecar next to the managed
// file and consumed by Rollback; backup copies themselves are never
// auto-deleted.
type BackupRecord struct {
	// OriginalPath is the managed file being protected.
	OriginalPath string `json:"original_path"`
	// BackupPath holds the verbatim copy; empty when HadPriorFile is false.
	BackupPath string `json:"backup_path,omitempty"`
	// HadPriorFile distinguishes a backup of real content from a run that
	// created the file from nothing. Rollback of the latter must delete the
	// file, not write an empty one.
	HadPriorFile bool `json:"had_prior_file"`
	// CreatedAt is when the backup was taken.
	CreatedAt time.Time `json:"created_at"`
}

// backupPathFor picks a backup path next to the original that does not
// collide with an earlier backup: <path>.cargotune-backup, then numbered
// .1, .2, ... suffixes. Repeated runs never destroy the oldest backup.
func backupPathFor(original string) (string, error) {
	base := original + backupSuffix
	candidate := base
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		if i > 10000 {
			return "", fmt.Errorf("no free backup path near %s", base)
		}
		candidate = fmt.Sprintf("%s.%d", base, i)
	}
}

func recordPathFor(original string) string {
	return original + recordSuffix
}

// saveRecord persists the record sidecar.
func saveRecord(rec *BackupRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling backup record: %w", err)
	}
	path := recordPathFor(rec.OriginalPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing backup record %s: %w", path, err)
	}
	return nil
}

// loadRecord reads the record sidecar for a managed file. Returns nil, nil
// when no record exists (the file shows no evidence of being touched).
func loadRecord(original string) (*BackupRecord, error) {
	path := recordPathFor(original)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup record %s: %w", path, err)
	}
	var rec BackupRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing backup record %s: %w", path, err)
	}
	return &rec, nil
}

// copyFile copies src to dst verbatim, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

package cargocfg

import (
	"os"
	"testing"
)

func TestRollbackRestoresPriorContent(t *testing.T) {
	dir := t.TempDir()
	original := "[alias]\nb = \"build --release\"\n"
	path := writeConfig(t, dir, original)

	w := NewWriter(dir)
	if _, err := w.Apply(moldDocument()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if readFile(t, path) == original {
		t.Fatal("apply should have changed the file")
	}

	result, err := w.Rollback()
	if err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if !result.Restored || result.NoOp || result.Deleted {
		t.Errorf("result = %+v, want Restored", result)
	}
	if got := readFile(t, path); got != original {
		t.Errorf("rollback content mismatch:\n%q\nwant\n%q", got, original)
	}
}

func TestRollbackDeletesCreatedFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if _, err := w.Apply(moldDocument()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	result, err := w.Rollback()
	if err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if !result.Deleted {
		t.Errorf("result = %+v, want Deleted", result)
	}
	if _, err := os.Stat(w.ConfigPath()); !os.IsNotExist(err) {
		t.Error("rollback of a created-from-nothing file must delete it, not empty it")
	}
}

func TestRollbackUntouchedProjectIsNoOp(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	result, err := w.Rollback()
	if err != nil {
		t.Fatalf("rollback of an untouched project must not error: %v", err)
	}
	if !result.NoOp {
		t.Errorf("result = %+v, want NoOp", result)
	}
}

func TestRollbackIgnoresManualEdits(t *testing.T) {
	// Rollback restores from the backup, not from the current file content.
	dir := t.TempDir()
	original := "[alias]\nb = \"build\"\n"
	path := writeConfig(t, dir, original)

	w := NewWriter(dir)
	if _, err := w.Apply(moldDocument()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// User uninstalls mold and hand-edits the file afterwards.
	if err := os.WriteFile(path, []byte("# hand-edited\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := w.Rollback()
	if err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if !result.Restored {
		t.Errorf("result = %+v, want Restored", result)
	}
	if got := readFile(t, path); got != original {
		t.Errorf("rollback must restore the backup, got:\n%q", got)
	}
}

func TestRollbackTwiceSecondIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[alias]\nb = \"build\"\n")

	w := NewWriter(dir)
	if _, err := w.Apply(moldDocument()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := w.Rollback(); err != nil {
		t.Fatalf("first Rollback failed: %v", err)
	}

	result, err := w.Rollback()
	if err != nil {
		t.Fatalf("second Rollback failed: %v", err)
	}
	if !result.NoOp {
		t.Errorf("second rollback should be a no-op, got %+v", result)
	}
}

func TestRollbackKeepsBackupCopy(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[alias]\nb = \"build\"\n")

	w := NewWriter(dir)
	rec, err := w.Apply(moldDocument())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := w.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	// Deleting the backup is the caller's choice, never automatic.
	if _, err := os.Stat(rec.BackupPath); err != nil {
		t.Errorf("backup copy should survive rollback: %v", err)
	}
}

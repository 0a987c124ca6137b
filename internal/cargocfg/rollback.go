package cargocfg

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// RollbackResult reports what a rollback did.
type RollbackResult struct {
	// NoOp is true when no backup record was found for the target — the file
	// shows no evidence of having been touched by this tool. That is not an
	// error and implies no damage.
	NoOp bool
	// Restored is true when the pre-change content was copied back.
	Restored bool
	// Deleted is true when a file this tool created from nothing was removed.
	Deleted bool
	// Record is the consumed backup record, nil when NoOp.
	Record *BackupRecord
}

// Rollback restores the managed file to its recorded pre-change state.
//
// Restoration always reads from the backup copy, never from the current file
// content, so manual edits made after Apply do not affect the result. The
// record sidecar is consumed; the backup copy itself is left for the caller
// to delete.
func (w *Writer) Rollback() (RollbackResult, error) {
	path := w.ConfigPath()

	rec, err := loadRecord(path)
	if err != nil {
		return RollbackResult{}, err
	}
	if rec == nil {
		log.Debug("no backup record, nothing to roll back", "path", path)
		return RollbackResult{NoOp: true}, nil
	}

	if rec.HadPriorFile {
		data, err := os.ReadFile(rec.BackupPath)
		if err != nil {
			return RollbackResult{}, &BackupError{Path: rec.BackupPath,
				Err: fmt.Errorf("reading backup for restore: %w", err)}
		}
		if err := w.writeAtomic(path, data); err != nil {
			return RollbackResult{}, &WriteError{Path: path, Err: err}
		}
		if err := os.Remove(recordPathFor(path)); err != nil && !os.IsNotExist(err) {
			return RollbackResult{}, fmt.Errorf("removing backup record: %w", err)
		}
		log.Debug("restored config from backup", "path", path, "backup", rec.BackupPath)
		return RollbackResult{Restored: true, Record: rec}, nil
	}

	// The file was created from nothing; rolling back means deleting it.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return RollbackResult{}, &WriteError{Path: path, Err: err}
	}
	if err := os.Remove(recordPathFor(path)); err != nil && !os.IsNotExist(err) {
		return RollbackResult{}, fmt.Errorf("removing backup record: %w", err)
	}
	log.Debug("removed config created by apply", "path", path)
	return RollbackResult{Deleted: true, Record: rec}, nil
}

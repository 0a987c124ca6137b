package cargocfg

import "fmt"

// ParseError reports an existing config file that is not valid TOML. The
// writer never guesses at malformed input; it aborts with zero mutation.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing existing config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BackupError reports a failure to create the backup copy. No mutation of
// the original file is attempted after it.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backing up %s: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// WriteError reports a failed temp-file write or atomic rename. The original
// file is untouched because the rename never occurred.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing config %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ConflictError reports that a managed key path is blocked by an existing
// non-table value (e.g. `target = "foo"` where a [target] table is needed).
// Overwriting it would destroy a foreign key, so the merge aborts; the
// backup taken beforehand is left in place.
type ConflictError struct {
	Path string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("config %s: key %q exists but is not a table; refusing to overwrite", e.Path, e.Key)
}

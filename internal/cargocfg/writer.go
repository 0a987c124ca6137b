package cargocfg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigDirName is Cargo's configuration directory in the project root.
	ConfigDirName = ".cargo"
	// ConfigFileName is the managed file inside ConfigDirName.
	ConfigFileName = "config.toml"
)

// Writer merges Documents into a project's .cargo/config.toml.
//
// Per invocation it moves through Loaded → BackedUp → Merged → Written →
// Done; any hard failure aborts with the original file untouched (at most a
// backup copy has been created). It does no cross-process locking: two
// concurrent invocations against the same project may race, and single-writer
// usage is assumed.
type Writer struct {
	// Dir is the project root; the managed file is Dir/.cargo/config.toml.
	Dir string

	// rename is a seam for simulating atomic-replace failure in tests.
	rename func(oldpath, newpath string) error
}

// NewWriter returns a Writer for the given project root.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, rename: os.Rename}
}

// ConfigPath returns the managed file's path for this writer.
func (w *Writer) ConfigPath() string {
	return filepath.Join(w.Dir, ConfigDirName, ConfigFileName)
}

// Apply merges doc into the on-disk config. Foreign keys are preserved
// unchanged, managed keys are overwritten, and the pre-change state is
// backed up and recorded before any mutation. The returned BackupRecord
// locates the backup for a later Rollback.
func (w *Writer) Apply(doc Document) (*BackupRecord, error) {
	path := w.ConfigPath()

	// Loaded.
	existing, hadPrior, err := loadExisting(path)
	if err != nil {
		return nil, err
	}

	// BackedUp.
	rec := &BackupRecord{
		OriginalPath: path,
		HadPriorFile: hadPrior,
		CreatedAt:    time.Now().UTC(),
	}
	if hadPrior {
		backupPath, err := backupPathFor(path)
		if err != nil {
			return nil, &BackupError{Path: path, Err: err}
		}
		if err := copyFile(path, backupPath); err != nil {
			return nil, &BackupError{Path: path, Err: err}
		}
		rec.BackupPath = backupPath
		log.Debug("backed up config", "path", path, "backup", backupPath)
	}

	// Merged.
	merged, err := mergeManaged(existing, doc, path)
	if err != nil {
		return nil, err
	}

	// Written.
	out, err := toml.Marshal(merged)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := w.writeAtomic(path, out); err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}

	// Done.
	if err := saveRecord(rec); err != nil {
		return nil, fmt.Errorf("config written but backup record failed: %w", err)
	}
	log.Debug("config written", "path", path, "had_prior_file", hadPrior)
	return rec, nil
}

// loadExisting parses the managed file if present. An absent file yields an
// empty tree; a malformed file is a hard error with zero mutation.
func loadExisting(path string) (map[string]any, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, &ParseError{Path: path, Err: err}
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, false, &ParseError{Path: path, Err: err}
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, true, nil
}

// mergeManaged computes the union of the existing tree and the document at
// the managed-key level: managed keys are set to the new value, everything
// else is carried over untouched. This is deliberately not a deep structural
// merge of arbitrary content — only the enumerated managed keys are touched.
func mergeManaged(existing map[string]any, doc Document, path string) (map[string]any, error) {
	out := cloneTree(existing)

	for _, triple := range sortedTriples(doc.Targets) {
		tc := doc.Targets[triple]
		targets, err := ensureTable(out, "target", path)
		if err != nil {
			return nil, err
		}
		tbl, err := ensureTable(targets, triple, path)
		if err != nil {
			return nil, err
		}
		tbl["linker"] = tc.Linker
		if len(tc.Rustflags) > 0 {
			flags := make([]any, len(tc.Rustflags))
			for i, f := range tc.Rustflags {
				flags[i] = f
			}
			tbl["rustflags"] = flags
		}
	}

	if doc.Jobs > 0 {
		build, err := ensureTable(out, "build", path)
		if err != nil {
			return nil, err
		}
		build["jobs"] = int64(doc.Jobs)
	}

	return out, nil
}

// ensureTable returns the sub-table under key, creating it when absent. An
// existing non-table value there blocks the managed key path.
func ensureTable(tree map[string]any, key, path string) (map[string]any, error) {
	switch v := tree[key].(type) {
	case nil:
		tbl := map[string]any{}
		tree[key] = tbl
		return tbl, nil
	case map[string]any:
		return v, nil
	default:
		return nil, &ConflictError{Path: path, Key: key}
	}
}

func cloneTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func sortedTriples(targets map[string]TargetConfig) []string {
	triples := make([]string, 0, len(targets))
	for t := range targets {
		triples = append(triples, t)
	}
	sort.Strings(triples)
	return triples
}

// writeAtomic writes data to a temp file in the target's directory and
// renames it into place, so a crash mid-write never leaves a half-written
// file: the visible file is either fully old or fully new.
func (w *Writer) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	rename := w.rename
	if rename == nil {
		rename = os.Rename
	}
	if err := rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

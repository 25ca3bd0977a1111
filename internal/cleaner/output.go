package cleaner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/zeebo/xxh3"

	pcsv "salesclean/internal/parser/csv"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// writeAtomic writes path through a temporary file in the same directory and
// renames it into place, so readers never see a partial file. It returns the
// xxh3 hash of the bytes written.
func writeAtomic(path string, write func(io.Writer) error) (uint64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	h := xxh3.New()
	if err := write(io.MultiWriter(tmp, h)); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("rename into %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// rejectsTable lays out rejected rows as _line, _stage, _reason, then
// columns. A metadata name taken by a data column gets more leading
// underscores until it is unique.
func rejectsTable(columns []string, rows []builtin.RejectedRow) records.Table {
	line := metaColumn("line", columns)
	stage := metaColumn("stage", columns)
	reason := metaColumn("reason", columns)
	cols := append([]string{line, stage, reason}, columns...)
	t := records.Table{Columns: cols, Kinds: make([]records.Kind, len(cols))}
	for _, r := range rows {
		rec := make(records.Record, len(cols))
		rec[line] = r.Line
		rec[stage] = r.Stage
		rec[reason] = r.Reason
		for _, c := range columns {
			rec[c] = r.Raw[c]
		}
		t.Append(rec, r.Line)
	}
	return t
}

func metaColumn(base string, columns []string) string {
	name := "_" + base
	for slices.Contains(columns, name) {
		name = "_" + name
	}
	return name
}

// writeCSV writes t to path atomically.
func writeCSV(path string, comma rune, t records.Table) (uint64, error) {
	return writeAtomic(path, func(w io.Writer) error {
		return pcsv.Writer{Comma: comma}.Write(w, t)
	})
}

package builtin

import (
	"fmt"
	"strings"

	"salesclean/pkg/records"
)

// Duplicate column policies for NormalizeColumns.
const (
	DuplicateError    = "error"
	DuplicateLastWins = "last-wins"
)

// NormalizeName trims surrounding whitespace, lowercases, then replaces every
// space with an underscore. Only U+0020 is replaced; tabs and other inner
// whitespace are kept.
func NormalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// NormalizeColumns renames every column with NormalizeName, keeping column
// order and re-keying every row.
//
// When two source columns normalize to the same name, OnDuplicate decides:
// "error" (the default) fails with *DuplicateColumnError; "last-wins" keeps
// one column at the position of the first occurrence holding the values and
// kind of the last one.
type NormalizeColumns struct {
	OnDuplicate string
}

// Apply implements transformer.Transformer.
func (n NormalizeColumns) Apply(in records.Table) (records.Table, error) {
	policy := strings.ToLower(strings.TrimSpace(n.OnDuplicate))
	if policy == "" {
		policy = DuplicateError
	}
	if policy != DuplicateError && policy != DuplicateLastWins {
		return records.Table{}, fmt.Errorf("unknown duplicate column policy %q", n.OnDuplicate)
	}

	// source[j] is the input column feeding output column j.
	var (
		names   []string
		kinds   []records.Kind
		source  []string
		pos     = make(map[string]int, len(in.Columns))
		sources = make(map[string][]string)
	)
	for i, col := range in.Columns {
		name := NormalizeName(col)
		kind := records.KindText
		if i < len(in.Kinds) {
			kind = in.Kinds[i]
		}
		sources[name] = append(sources[name], col)
		if j, seen := pos[name]; seen {
			if policy == DuplicateError {
				continue
			}
			source[j] = col
			kinds[j] = kind
			continue
		}
		pos[name] = len(names)
		names = append(names, name)
		kinds = append(kinds, kind)
		source = append(source, col)
	}
	if policy == DuplicateError {
		for _, name := range names {
			if src := sources[name]; len(src) > 1 {
				return records.Table{}, &DuplicateColumnError{Name: name, Sources: src}
			}
		}
	}

	out := records.Table{
		Columns: names,
		Kinds:   kinds,
		Rows:    make([]records.Record, 0, in.Len()),
		Lines:   make([]int, 0, in.Len()),
	}
	for i, r := range in.Rows {
		rec := make(records.Record, len(names))
		for j, name := range names {
			rec[name] = r[source[j]]
		}
		out.Append(rec, in.LineOf(i))
	}
	return out, nil
}

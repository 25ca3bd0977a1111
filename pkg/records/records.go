// Package records defines the in-memory tabular model shared by the parser,
// the cleaning stages, and the sinks.
package records

// Record maps a column name to a cell value. Cell values are string, float64,
// bool, or nil for a null/absent cell.
type Record map[string]any

// Clone returns a shallow copy of r. Cell values are immutable scalars, so a
// shallow copy is enough to keep stages from aliasing each other's rows.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Kind classifies the content of a column.
type Kind uint8

const (
	KindText Kind = iota
	KindNumeric
	KindBool
)

// String returns the lowercase name used in configs and logs.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Table is an ordered set of rows sharing one column set. Columns and Kinds
// are parallel slices. Lines, when set, is parallel to Rows and holds the
// source line each row was read from.
type Table struct {
	Columns []string
	Kinds   []Kind
	Rows    []Record
	Lines   []int
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Index returns the position of column name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column called name.
func (t Table) Has(name string) bool { return t.Index(name) >= 0 }

// KindOf returns the kind of column name; unknown columns report KindText.
func (t Table) KindOf(name string) Kind {
	i := t.Index(name)
	if i < 0 || i >= len(t.Kinds) {
		return KindText
	}
	return t.Kinds[i]
}

// LineOf returns the source line of row i. Tables built in memory without
// line information report i+2, the line a row would occupy under a header.
func (t Table) LineOf(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Clone returns a deep copy of the column metadata and every row map.
func (t Table) Clone() Table {
	out := t.CloneShape(len(t.Rows))
	for i, r := range t.Rows {
		out.Append(r.Clone(), t.LineOf(i))
	}
	return out
}

// Append adds r read from the given source line.
func (t *Table) Append(r Record, line int) {
	t.Rows = append(t.Rows, r)
	t.Lines = append(t.Lines, line)
}

// CloneShape copies the columns and kinds and returns an empty row slice with
// capacity n. Filtering stages use it to build their output.
func (t Table) CloneShape(n int) Table {
	cols := append([]string(nil), t.Columns...)
	kinds := make([]Kind, len(cols))
	copy(kinds, t.Kinds)
	return Table{
		Columns: cols,
		Kinds:   kinds,
		Rows:    make([]Record, 0, n),
		Lines:   make([]int, 0, n),
	}
}

package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"salesclean/pkg/records"
)

// Writer renders a records.Table as CSV: a header row, then one line per row
// in table order, without an index column.
type Writer struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune
}

// Write encodes t to w and flushes.
func (wr Writer) Write(w io.Writer, t records.Table) error {
	cw := csv.NewWriter(w)
	if wr.Comma != 0 {
		cw.Comma = wr.Comma
	}
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	line := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, c := range t.Columns {
			line[j] = FormatCell(r[c])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// FormatCell renders a cell value: nil as an empty field, numbers in their
// shortest decimal form (infinities as inf and -inf), booleans as True/False.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		switch {
		case math.IsInf(t, 1):
			return "inf"
		case math.IsInf(t, -1):
			return "-inf"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(t)
	}
}

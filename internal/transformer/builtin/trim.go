package builtin

import (
	"strings"

	"salesclean/pkg/records"
)

// TrimText strips leading and trailing whitespace from string cells of text
// columns. Null cells pass through, and numeric or bool columns are copied
// unchanged even if their cells carry whitespace.
type TrimText struct{}

// Apply implements transformer.Transformer.
func (TrimText) Apply(in records.Table) (records.Table, error) {
	var text []string
	for i, col := range in.Columns {
		if i < len(in.Kinds) && in.Kinds[i] == records.KindText {
			text = append(text, col)
		}
	}

	out := in.CloneShape(in.Len())
	for i, r := range in.Rows {
		rec := r.Clone()
		for _, col := range text {
			if s, ok := rec[col].(string); ok {
				rec[col] = strings.TrimSpace(s)
			}
		}
		out.Append(rec, in.LineOf(i))
	}
	return out, nil
}

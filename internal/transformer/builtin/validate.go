package builtin

import (
	"fmt"

	"salesclean/pkg/records"
)

// RemoveInvalid drops rows where any of Fields holds a negative number. Zero
// is valid. Cells must already be numeric; anything else is rejected too, so
// the stage is safe to run on its own.
type RemoveInvalid struct {
	Fields []string
	Reject RejectFunc
}

// Apply implements transformer.Transformer.
func (v RemoveInvalid) Apply(in records.Table) (records.Table, error) {
	fields := v.Fields
	if len(fields) == 0 {
		fields = DefaultNumericFields
	}
	for _, f := range fields {
		if !in.Has(f) {
			return records.Table{}, &MissingColumnError{Column: f, Available: append([]string(nil), in.Columns...)}
		}
	}

	out := in.CloneShape(in.Len())
	for i, r := range in.Rows {
		if reason := invalidReason(r, fields); reason != "" {
			v.Reject.report(in.LineOf(i), r, StageRemoveInvalid, reason)
			continue
		}
		out.Append(r.Clone(), in.LineOf(i))
	}
	return out, nil
}

func invalidReason(r records.Record, fields []string) string {
	for _, f := range fields {
		n, ok := r[f].(float64)
		switch {
		case !ok:
			return fmt.Sprintf("%s is not numeric", f)
		case n < 0:
			return fmt.Sprintf("negative %s", f)
		}
	}
	return ""
}

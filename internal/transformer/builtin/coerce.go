package builtin

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"salesclean/internal/schema"
	"salesclean/pkg/records"
)

// DefaultNumericFields are the columns coerced and range-checked when no
// other set is configured.
var DefaultNumericFields = []string{"price", "qty"}

// CoerceNumeric converts every cell of Fields to float64. Cells that cannot
// be read as a number become nil; this never fails. Rows left with a nil in
// any of Fields are then dropped and reported to Reject.
type CoerceNumeric struct {
	Fields []string
	Reject RejectFunc
}

// Apply implements transformer.Transformer.
func (c CoerceNumeric) Apply(in records.Table) (records.Table, error) {
	fields := c.Fields
	if len(fields) == 0 {
		fields = DefaultNumericFields
	}
	for _, f := range fields {
		if !in.Has(f) {
			return records.Table{}, &MissingColumnError{Column: f, Available: append([]string(nil), in.Columns...)}
		}
	}

	out := in.CloneShape(in.Len())
	for _, f := range fields {
		out.Kinds[out.Index(f)] = records.KindNumeric
	}

	for i, r := range in.Rows {
		rec := r.Clone()
		var bad []string
		for _, f := range fields {
			v, ok := ToNumber(rec[f])
			if !ok {
				rec[f] = nil
				bad = append(bad, f)
				continue
			}
			rec[f] = v
		}
		if len(bad) > 0 {
			c.Reject.report(in.LineOf(i), r, StageCoerceNumeric, fmt.Sprintf("missing or non-numeric %s", strings.Join(bad, ", ")))
			continue
		}
		out.Append(rec, in.LineOf(i))
	}
	return out, nil
}

// ToNumber converts a cell to float64. Strings are parsed after trimming
// surrounding whitespace; NaN, infinities and nil are not numbers.
func ToNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		return schema.ParseNumber(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case bool:
		// Literal True/False cells are not quantities.
		return 0, false
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
}

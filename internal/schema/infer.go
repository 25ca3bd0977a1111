package schema

import (
	"math"
	"strconv"
	"strings"

	"salesclean/pkg/records"
)

// boolLiterals are the spellings read as booleans when inferring kinds.
var boolLiterals = map[string]struct{}{
	"True": {}, "False": {}, "true": {}, "false": {}, "TRUE": {}, "FALSE": {},
}

// ParseNumber parses s as a decimal number after trimming surrounding
// whitespace. NaN, infinities, hex floats and empty input are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool reads one of the recognized boolean spellings.
func ParseBool(s string) (value, ok bool) {
	if !IsBoolLiteral(s) {
		return false, false
	}
	return s[0] == 'T' || s[0] == 't', true
}

// IsBoolLiteral reports whether s is one of the recognized boolean spellings.
func IsBoolLiteral(s string) bool {
	_, ok := boolLiterals[s]
	return ok
}

// InferKinds classifies every column of t by looking at its non-null cells:
//
//   - numeric when every cell parses as a number, or when every cell is null;
//   - bool when every cell is a boolean literal;
//   - text otherwise, including any column holding a mix of the above.
//
// Non-string cells count as their natural kind.
func InferKinds(t records.Table) []records.Kind {
	kinds := make([]records.Kind, len(t.Columns))
	for i, col := range t.Columns {
		kinds[i] = inferColumn(t.Rows, col)
	}
	return kinds
}

func inferColumn(rows []records.Record, col string) records.Kind {
	numeric, boolean := true, true
	for _, r := range rows {
		switch v := r[col].(type) {
		case nil:
			continue
		case float64, int, int64:
			boolean = false
		case bool:
			numeric = false
		case string:
			if _, ok := ParseNumber(v); !ok {
				numeric = false
			}
			if !IsBoolLiteral(v) {
				boolean = false
			}
		default:
			numeric, boolean = false, false
		}
		if !numeric && !boolean {
			return records.KindText
		}
	}
	if numeric {
		return records.KindNumeric
	}
	return records.KindBool
}

// Apply returns kinds with every declared contract field overriding the
// inferred kind of the matching column. Undeclared columns keep their kind.
func (c Contract) Apply(columns []string, kinds []records.Kind) ([]records.Kind, error) {
	out := make([]records.Kind, len(columns))
	copy(out, kinds)
	for i, col := range columns {
		f, ok := c.Field(col)
		if !ok {
			continue
		}
		k, err := ParseKind(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = k
	}
	return out, nil
}

package builtin

import (
	"salesclean/internal/schema"
	"salesclean/pkg/records"
)

// EnforceContract runs right after column normalization. It fails with
// *MissingColumnError when a required contract field is absent and lets the
// declared field types override the kinds inferred at load time.
type EnforceContract struct {
	Contract schema.Contract
}

// Apply implements transformer.Transformer.
func (e EnforceContract) Apply(in records.Table) (records.Table, error) {
	for _, name := range e.Contract.Required() {
		if !in.Has(name) {
			return records.Table{}, &MissingColumnError{
				Column:    name,
				Available: append([]string(nil), in.Columns...),
			}
		}
	}
	kinds, err := e.Contract.Apply(in.Columns, in.Kinds)
	if err != nil {
		return records.Table{}, err
	}
	out := in.Clone()
	out.Kinds = kinds
	return out, nil
}

// Package schema describes the explicit column contract a caller can supply
// for a cleaning run: which columns must exist and how each one is typed.
package schema

import (
	"fmt"
	"strings"

	"salesclean/pkg/records"
)

// Field declares one column of the contract. Name is matched against the
// normalized column name.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"` // "text" | "numeric" | "bool"
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Contract is an ordered list of field declarations.
type Contract struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// DefaultContract returns the contract of the sales dataset: price and qty
// must exist and are numeric.
func DefaultContract() Contract {
	return Contract{
		Name: "sales",
		Fields: []Field{
			{Name: "price", Type: "numeric", Required: true},
			{Name: "qty", Type: "numeric", Required: true},
		},
	}
}

// Field returns the declaration for name, if any.
func (c Contract) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Required lists the names of required fields in declaration order.
func (c Contract) Required() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// ParseKind maps a contract type name onto a records.Kind. It accepts a few
// database-ish aliases.
//
//	"text", "string", ""                       → text
//	"numeric", "number", "float", "int", ...   → numeric
//	"bool", "boolean"                          → bool
func ParseKind(t string) (records.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text", "string":
		return records.KindText, nil
	case "numeric", "number", "float", "double", "real", "decimal", "int", "integer", "bigint":
		return records.KindNumeric, nil
	case "bool", "boolean":
		return records.KindBool, nil
	default:
		return records.KindText, fmt.Errorf("unknown field type %q", t)
	}
}

// Validate checks the contract for structural mistakes: empty or duplicate
// names and unknown types.
func (c Contract) Validate() error {
	seen := make(map[string]struct{}, len(c.Fields))
	for i, f := range c.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("fields[%d]: name must not be empty", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("fields[%d]: duplicate field %q", i, f.Name)
		}
		seen[f.Name] = struct{}{}
		if _, err := ParseKind(f.Type); err != nil {
			return fmt.Errorf("fields[%d] (%s): %w", i, f.Name, err)
		}
	}
	return nil
}

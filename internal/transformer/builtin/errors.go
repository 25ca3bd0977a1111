package builtin

import (
	"fmt"
	"strings"
)

// MissingColumnError reports a required column that is absent after column
// names were normalized.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}

// DuplicateColumnError reports two or more source columns that normalize to
// the same name.
type DuplicateColumnError struct {
	Name    string
	Sources []string
}

func (e *DuplicateColumnError) Error() string {
	quoted := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("columns %s all normalize to %q", strings.Join(quoted, ", "), e.Name)
}

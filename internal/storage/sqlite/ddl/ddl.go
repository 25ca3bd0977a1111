// Package ddl renders SQLite CREATE TABLE statements.
package ddl

import (
	"context"
	"strings"

	gddl "salesclean/internal/ddl"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// Dialect quotes identifiers with double quotes and uses IF NOT EXISTS.
var Dialect = gddl.Dialect{
	Name:        "sqlite ddl",
	QuoteIdent:  QuoteIdent,
	IfNotExists: true,
}

// MapType maps a column kind to a SQLite type affinity. Booleans are stored
// as INTEGER 0/1.
func MapType(k records.Kind) string {
	switch k {
	case records.KindNumeric:
		return "REAL"
	case records.KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// QuoteIdent double-quotes id, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders t for SQLite.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// EnsureTable creates the table described by spec if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, spec storage.TableSpec) error {
	stmt, err := BuildCreateTableSQL(gddl.FromKinds(spec.Table, spec.Columns, spec.Kinds, MapType))
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}

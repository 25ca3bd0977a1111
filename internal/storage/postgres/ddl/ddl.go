// Package ddl renders Postgres CREATE TABLE statements.
package ddl

import (
	"context"
	"strings"

	gddl "salesclean/internal/ddl"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// Dialect double-quotes identifiers, uses IF NOT EXISTS and keeps primary
// key columns NOT NULL.
var Dialect = gddl.Dialect{
	Name:              "postgres ddl",
	QuoteIdent:        QuoteIdent,
	IfNotExists:       true,
	PrimaryKeyNotNull: true,
}

// MapType maps a column kind to a Postgres type.
func MapType(k records.Kind) string {
	switch k {
	case records.KindNumeric:
		return "DOUBLE PRECISION"
	case records.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// QuoteIdent double-quotes id, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders t for Postgres.
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

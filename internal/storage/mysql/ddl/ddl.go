// Package ddl renders MySQL CREATE TABLE statements.
package ddl

import (
	"context"
	"strings"

	gddl "salesclean/internal/ddl"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// Dialect quotes identifiers with backticks and uses IF NOT EXISTS.
var Dialect = gddl.Dialect{
	Name:              "mysql ddl",
	QuoteIdent:        QuoteIdent,
	IfNotExists:       true,
	PrimaryKeyNotNull: true,
}

// MapType maps a column kind to a MySQL type. Text uses TEXT so product
// names of any length fit.
func MapType(k records.Kind) string {
	switch k {
	case records.KindNumeric:
		return "DOUBLE"
	case records.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// QuoteIdent backtick-quotes id, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// BuildCreateTableSQL renders t for MySQL.
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

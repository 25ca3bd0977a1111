// Package ddl renders SQL Server CREATE TABLE scripts. T-SQL has no CREATE
// TABLE IF NOT EXISTS, so the statement is guarded with OBJECT_ID.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "salesclean/internal/ddl"
	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

// Dialect uses bracket quoting and an OBJECT_ID guard.
var Dialect = gddl.Dialect{
	Name:       "mssql ddl",
	QuoteIdent: QuoteIdent,
	Guard: func(fqn, stmt string) string {
		escaped := strings.ReplaceAll(fqn, "'", "''")
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;", escaped, stmt)
	},
}

// MapType maps a column kind to a SQL Server type.
func MapType(k records.Kind) string {
	switch k {
	case records.KindNumeric:
		return "FLOAT"
	case records.KindBool:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}

// QuoteIdent bracket-quotes id, doubling closing brackets.
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// BuildCreateTableSQL renders t for SQL Server.
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

// Package ddl is a small, dialect-neutral model of CREATE TABLE statements.
//
// Backend packages (internal/storage/<backend>/ddl) supply a Dialect with
// their identifier quoting and existence guard, and a type mapping from
// column kinds to SQL types.
package ddl

import (
	"fmt"
	"strings"

	"salesclean/pkg/records"
)

// Dialect describes how a backend renders CREATE TABLE.
type Dialect struct {
	// Name prefixes error messages, e.g. "sqlite ddl".
	Name string
	// QuoteIdent quotes one identifier segment. Nil emits names verbatim.
	QuoteIdent func(string) string
	// IfNotExists adds "IF NOT EXISTS" after CREATE TABLE.
	IfNotExists bool
	// Guard, when set, wraps the rendered statement, receiving the quoted
	// table name. Backends without IF NOT EXISTS use it.
	Guard func(quotedFQN, stmt string) string
	// PrimaryKeyNotNull forces NOT NULL on primary key columns.
	PrimaryKeyNotNull bool
}

// Generic renders names verbatim with no existence guard.
var Generic = Dialect{Name: "ddl"}

// FromKinds builds a TableDef for the given columns, mapping each kind
// with mapType. Every column is nullable.
func FromKinds(fqn string, columns []string, kinds []records.Kind, mapType func(records.Kind) string) TableDef {
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, len(columns))}
	for i, c := range columns {
		k := records.KindText
		if i < len(kinds) {
			k = kinds[i]
		}
		td.Columns = append(td.Columns, ColumnDef{Name: c, SQLType: mapType(k), Nullable: true})
	}
	return td
}

// BuildCreateTableSQL renders t with the Generic dialect.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Render(t, Generic)
}

// Render builds
//
//	CREATE TABLE [IF NOT EXISTS] <fqn> (
//	  <col> <type> [NOT NULL] [DEFAULT <expr>],
//	  PRIMARY KEY (<pk>, ...)
//	);
//
// FQN, column names and SQL types must be non-empty.
func Render(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", d.Name)
	}

	quote := d.QuoteIdent
	if quote == nil {
		quote = func(s string) string { return s }
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || (c.PrimaryKey && d.PrimaryKeyNotNull) {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	quoted := QuoteFQN(fqn, quote)
	head := "CREATE TABLE "
	if d.IfNotExists {
		head += "IF NOT EXISTS "
	}
	stmt := fmt.Sprintf("%s%s (\n  %s\n);", head, quoted, strings.Join(cols, ",\n  "))
	if d.Guard != nil {
		stmt = d.Guard(quoted, stmt)
	}
	return stmt, nil
}

// QuoteFQN quotes each dotted segment of fqn, skipping empty ones.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

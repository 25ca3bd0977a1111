// Package mysql loads cleaned tables into MySQL with go-sql-driver/mysql.
// Each batch is written with multi-row INSERT statements in one
// transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	gddl "salesclean/internal/ddl"
	myddl "salesclean/internal/storage/mysql/ddl"
)

// maxPlaceholders is the server's limit on bound parameters per statement.
const maxPlaceholders = 65535

// Config holds MySQL repository settings.
type Config struct {
	DSN   string // e.g. "user:pass@tcp(127.0.0.1:3306)/shop"
	Table string
}

// Repository writes rows to one MySQL table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, opens and pings the pool, and returns a
// cleanup function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql: dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows inside one transaction, splitting the batch so no
// statement exceeds the placeholder limit.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	per := max(1, maxPlaceholders/len(columns))
	var total int64
	for lo := 0; lo < len(rows); lo += per {
		hi := min(lo+per, len(rows))
		query, args, err := insertStatement(r.cfg.Table, columns, rows[lo:hi])
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: insert: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: rows affected: %w", err)
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return total, nil
}

// Exec runs one statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// insertStatement builds INSERT INTO t (cols) VALUES (?,..),(?,..) and its
// flattened arguments.
func insertStatement(table string, columns []string, rows [][]any) (string, []any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myddl.QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", gddl.QuoteFQN(table, myddl.QuoteIdent), strings.Join(quoted, ", "))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("mysql: row %d has %d values for %d columns", i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}
	return sb.String(), args, nil
}

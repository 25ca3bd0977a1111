package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"salesclean/internal/storage"
	sqliteddl "salesclean/internal/storage/sqlite/ddl"
	"salesclean/pkg/records"
)

func openTemp(t *testing.T) (*Repository, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "sales.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: dsn, Table: "sales"})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(closeFn)
	return r, dsn
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()
	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

/*
TestRepository_CreateAndCopy verifies the full path through the factory: DDL
bootstrap, a batched load of cleaned rows, and reading them back.
*/
func TestRepository_CreateAndCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "sales.db")

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dsn, Table: "sales"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	defer repo.Close()

	tbl := records.Table{
		Columns: []string{"product_name", "price", "qty"},
		Kinds:   []records.Kind{records.KindText, records.KindNumeric, records.KindNumeric},
		Rows: []records.Record{
			{"product_name": "Widget", "price": 9.99, "qty": 3.0},
			{"product_name": nil, "price": 0.0, "qty": 0.0},
			{"product_name": "Thing", "price": 1.5, "qty": 2.0},
		},
	}
	if err := storage.EnsureTable(ctx, "sqlite", repo, storage.SpecFor("sales", tbl, nil)); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// Second bootstrap is a no-op.
	if err := storage.EnsureTable(ctx, "sqlite", repo, storage.SpecFor("sales", tbl, nil)); err != nil {
		t.Fatalf("EnsureTable again: %v", err)
	}

	rows, err := storage.Rows(tbl, tbl.Columns)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	res, err := storage.LoadBatches(ctx, tbl.Columns, rows, 2, repo.CopyFrom)
	if err != nil {
		t.Fatalf("LoadBatches: %v", err)
	}
	if res.Rows != 3 || res.Batches != 2 {
		t.Fatalf("result = %+v, want 3 rows in 2 batches", res)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var (
		count int
		total float64
		nulls int
	)
	if err := db.QueryRow(`SELECT COUNT(*), SUM(price*qty), SUM(product_name IS NULL) FROM sales`).Scan(&count, &total, &nulls); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 3 || nulls != 1 {
		t.Fatalf("count=%d nulls=%d, want 3 and 1", count, nulls)
	}
	if want := 9.99*3 + 1.5*2; total < want-1e-9 || total > want+1e-9 {
		t.Fatalf("sum = %v, want %v", total, want)
	}
}

func TestRepository_CopyFromRejectsRaggedRow(t *testing.T) {
	t.Parallel()

	r, _ := openTemp(t)
	ctx := context.Background()
	if err := r.Exec(ctx, `CREATE TABLE sales ("a" TEXT, "b" TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := r.CopyFrom(ctx, []string{"a", "b"}, [][]any{{"x", "y"}, {"only-one"}})
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("err = %v, want ragged row error", err)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows after rollback = %d, want 0", n)
	}
}

func TestRepository_ExecAndEmptyInputs(t *testing.T) {
	t.Parallel()

	r, _ := openTemp(t)
	ctx := context.Background()

	if err := r.Exec(ctx, "   "); err != nil {
		t.Fatalf("blank Exec: %v", err)
	}
	if err := r.Exec(ctx, "NOT SQL"); err == nil {
		t.Fatal("expected error for invalid SQL")
	}
	if n, err := r.CopyFrom(ctx, []string{"a"}, nil); err != nil || n != 0 {
		t.Fatalf("CopyFrom(nil) = %d, %v", n, err)
	}
	if _, err := r.CopyFrom(ctx, nil, [][]any{{1}}); err == nil {
		t.Fatal("expected error for empty columns")
	}
}

/*
TestRepository_StoresCellsByKind verifies that raw text cells of numeric and
bool columns land as REAL and INTEGER values, not as text.
*/
func TestRepository_StoresCellsByKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, _ := openTemp(t)

	tbl := records.Table{
		Columns: []string{"product_name", "discount", "active"},
		Kinds:   []records.Kind{records.KindText, records.KindNumeric, records.KindBool},
		Rows: []records.Record{
			{"product_name": "Widget", "discount": " 0.50 ", "active": "True"},
			{"product_name": "Thing", "discount": nil, "active": "false"},
		},
	}
	if err := sqliteddl.EnsureTable(ctx, &wrappedRepo{Repository: r}, storage.SpecFor("sales", tbl, nil)); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	rows, err := storage.Rows(tbl, tbl.Columns)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if _, err := r.CopyFrom(ctx, tbl.Columns, rows); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}

	var (
		discountType, activeType string
		discount                 float64
		active                   int
	)
	q := `SELECT typeof(discount), discount, typeof(active), active FROM sales WHERE product_name = 'Widget'`
	if err := r.db.QueryRow(q).Scan(&discountType, &discount, &activeType, &active); err != nil {
		t.Fatalf("query: %v", err)
	}
	if discountType != "real" || discount != 0.5 {
		t.Fatalf("discount = %s %v, want real 0.5", discountType, discount)
	}
	if activeType != "integer" || active != 1 {
		t.Fatalf("active = %s %v, want integer 1", activeType, active)
	}
	if err := r.db.QueryRow(`SELECT typeof(active), active FROM sales WHERE product_name = 'Thing'`).Scan(&activeType, &active); err != nil {
		t.Fatalf("query: %v", err)
	}
	if activeType != "integer" || active != 0 {
		t.Fatalf("active = %s %v, want integer 0", activeType, active)
	}
}

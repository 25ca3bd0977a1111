package postgres

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"salesclean/internal/storage"
)

// fakePool captures COPY and Exec calls.
type fakePool struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	sqls    []string
	err     error
}

func (f *fakePool) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.table, f.columns = table, columns
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, vals)
	}
	return int64(len(f.rows)), nil
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	return pgconn.CommandTag{}, f.err
}

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	cases := map[string]pgx.Identifier{
		"sales":        {"sales"},
		"public.sales": {"public", "sales"},
		".sales.":      {"sales"},
	}
	for in, want := range cases {
		if got := splitFQN(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("splitFQN(%q) = %v, want %v", in, got, want)
		}
	}
}

/* TestRepository_CopyFrom verifies that batches go through COPY on the configured table. */
func TestRepository_CopyFrom(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	r := &Repository{pool: pool, cfg: Config{Table: "public.sales"}}

	rows := [][]any{{"Widget", 9.99}, {"Thing", 0.0}}
	n, err := r.CopyFrom(context.Background(), []string{"product_name", "price"}, rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if !reflect.DeepEqual(pool.table, pgx.Identifier{"public", "sales"}) {
		t.Fatalf("table = %v", pool.table)
	}
	if !reflect.DeepEqual(pool.rows, rows) {
		t.Fatalf("rows = %#v, want %#v", pool.rows, rows)
	}

	if n, err := r.CopyFrom(context.Background(), []string{"a"}, nil); n != 0 || err != nil {
		t.Fatalf("empty CopyFrom = %d, %v", n, err)
	}
}

func TestRepository_Errors(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "22P02", Detail: "bad value"}
	r := &Repository{pool: &fakePool{err: pgErr}, cfg: Config{Table: "sales"}}

	_, err := r.CopyFrom(context.Background(), []string{"a"}, [][]any{{1}})
	var got *pgconn.PgError
	if !errors.As(err, &got) || got.Code != "22P02" {
		t.Fatalf("err = %v, want wrapped PgError", err)
	}
	if err := r.Exec(context.Background(), "SELECT 1"); !errors.As(err, &got) {
		t.Fatalf("Exec err = %v, want wrapped PgError", err)
	}
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()
	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestFactory_UsesSeam(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{pool: &fakePool{}, cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "postgres", DSN: "postgres://x", Table: "sales"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg != (Config{DSN: "postgres://x", Table: "sales"}) {
		t.Fatalf("cfg = %+v", gotCfg)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call cleanup")
	}
}

package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"salesclean/pkg/records"
)

func rowsN(n int) [][]any {
	out := make([][]any, n)
	for i := range out {
		out[i] = []any{float64(i)}
	}
	return out
}

func TestLoadBatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		rows        int
		batchSize   int
		failAt      int
		wantRows    int64
		wantBatches int64
		wantSizes   []int
		wantErr     bool
	}{
		{name: "exact multiple", rows: 6, batchSize: 3, wantRows: 6, wantBatches: 2, wantSizes: []int{3, 3}},
		{name: "remainder", rows: 5, batchSize: 2, wantRows: 5, wantBatches: 3, wantSizes: []int{2, 2, 1}},
		{name: "empty input", rows: 0, batchSize: 4, wantSizes: nil},
		{name: "fails on second batch", rows: 5, batchSize: 2, failAt: 2, wantRows: 2, wantBatches: 1, wantSizes: []int{2}, wantErr: true},
		{name: "bad batch size", rows: 1, batchSize: 0, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &fakeRepo{failAt: tc.failAt}
			res, err := LoadBatches(context.Background(), []string{"n"}, rowsN(tc.rows), tc.batchSize, repo.CopyFrom)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if res.Rows != tc.wantRows || res.Batches != tc.wantBatches {
				t.Fatalf("result = %+v, want rows=%d batches=%d", res, tc.wantRows, tc.wantBatches)
			}
			var sizes []int
			for _, b := range repo.batches {
				sizes = append(sizes, len(b))
			}
			if !reflect.DeepEqual(sizes, tc.wantSizes) {
				t.Fatalf("batch sizes = %v, want %v", sizes, tc.wantSizes)
			}
		})
	}
}

func TestLoadBatches_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &fakeRepo{}
	_, err := LoadBatches(ctx, []string{"n"}, rowsN(3), 1, repo.CopyFrom)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(repo.batches) != 0 {
		t.Fatalf("copied %d batches after cancel", len(repo.batches))
	}
}

func TestLoadBatches_NilCopyFn(t *testing.T) {
	t.Parallel()
	if _, err := LoadBatches(context.Background(), nil, nil, 1, nil); err == nil {
		t.Fatal("expected error for nil copyFn")
	}
}

func TestRowsAndSpecFor(t *testing.T) {
	t.Parallel()

	tbl := records.Table{
		Columns: []string{"product_name", "price", "qty"},
		Kinds:   []records.Kind{records.KindText, records.KindNumeric, records.KindNumeric},
		Rows:    []records.Record{{"product_name": "Widget", "price": 9.99, "qty": 3.0}},
	}

	rows, err := Rows(tbl, []string{"qty", "product_name"})
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if want := [][]any{{3.0, "Widget"}}; !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
	if _, err := Rows(tbl, []string{"sku"}); err == nil {
		t.Fatal("expected error for unknown column")
	}

	spec := SpecFor("sales", tbl, nil)
	want := TableSpec{Table: "sales", Columns: tbl.Columns, Kinds: tbl.Kinds}
	if !reflect.DeepEqual(spec, want) {
		t.Fatalf("spec = %+v, want %+v", spec, want)
	}
}

/* TestRows_ConvertsByKind verifies that text cells of numeric and bool columns reach CopyFn typed. */
func TestRows_ConvertsByKind(t *testing.T) {
	t.Parallel()

	tbl := records.Table{
		Columns: []string{"note", "discount", "active"},
		Kinds:   []records.Kind{records.KindText, records.KindNumeric, records.KindBool},
		Rows: []records.Record{
			{"note": " 1 ", "discount": " 0.50 ", "active": "True"},
			{"note": nil, "discount": nil, "active": "FALSE"},
		},
		Lines: []int{2, 3},
	}
	rows, err := Rows(tbl, tbl.Columns)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	want := [][]any{{" 1 ", 0.5, true}, {nil, nil, false}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}

	tbl.Rows[1]["discount"] = "n/a-ish"
	_, err = Rows(tbl, tbl.Columns)
	if err == nil || !strings.Contains(err.Error(), `"discount" line 3`) {
		t.Fatalf("err = %v, want conversion error for discount at line 3", err)
	}
}

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	var got TableSpec
	RegisterDDL("ddlfake", func(ctx context.Context, repo Repository, spec TableSpec) error {
		got = spec
		return repo.Exec(ctx, "CREATE "+spec.Table)
	})

	repo := &fakeRepo{}
	spec := TableSpec{Table: "sales", Columns: []string{"price"}, Kinds: []records.Kind{records.KindNumeric}}
	if err := EnsureTable(context.Background(), "ddlfake", repo, spec); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if !reflect.DeepEqual(got, spec) || !reflect.DeepEqual(repo.execs, []string{"CREATE sales"}) {
		t.Fatalf("bootstrapper saw %+v, execs %v", got, repo.execs)
	}

	if err := EnsureTable(context.Background(), "nope", repo, spec); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}

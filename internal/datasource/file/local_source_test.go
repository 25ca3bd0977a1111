package file

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLocalOpen covers success, missing file, directories and a pre-canceled
// context.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	type tc struct {
		name            string
		prepare         func(t *testing.T) string // returns path to open
		makeCtx         func(t *testing.T) context.Context
		wantErrIs       error  // checked via errors.Is
		wantMissing     bool   // expects *MissingInputError
		wantErrContains string // substring expected in error message
		wantContent     string // if non-empty, verifies read content on success
	}

	cases := []tc{
		{
			name: "success_reads_content",
			prepare: func(t *testing.T) string {
				t.Helper()
				p := filepath.Join(t.TempDir(), "sales.csv")
				const payload = "price,qty\n1,2\n"
				if err := os.WriteFile(p, []byte(payload), 0o644); err != nil {
					t.Fatalf("write test file: %v", err)
				}
				return p
			},
			makeCtx:     func(t *testing.T) context.Context { return context.Background() },
			wantContent: "price,qty\n1,2\n",
		},
		{
			name: "missing_file_is_not_found",
			prepare: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			makeCtx:         func(t *testing.T) context.Context { return context.Background() },
			wantErrIs:       fs.ErrNotExist,
			wantMissing:     true,
			wantErrContains: "not found",
		},
		{
			name: "directory_rejected",
			prepare: func(t *testing.T) string {
				t.Helper()
				return t.TempDir()
			},
			makeCtx:         func(t *testing.T) context.Context { return context.Background() },
			wantErrContains: "is a directory",
		},
		{
			name: "pre_canceled_context_short_circuits",
			prepare: func(t *testing.T) string {
				t.Helper()
				// Path intentionally missing: the context check must win.
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			makeCtx: func(t *testing.T) context.Context {
				t.Helper()
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErrIs: context.Canceled,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			path := c.prepare(t)
			rc, err := NewLocal(path).Open(c.makeCtx(t))

			if c.wantErrIs != nil || c.wantErrContains != "" {
				if err == nil {
					_ = rc.Close()
					t.Fatalf("expected error, got nil")
				}
				if c.wantErrIs != nil && !errors.Is(err, c.wantErrIs) {
					t.Fatalf("errors.Is(%v, %v) = false", err, c.wantErrIs)
				}
				var mie *MissingInputError
				if got := errors.As(err, &mie); got != c.wantMissing {
					t.Fatalf("errors.As(*MissingInputError) = %v, want %v (err=%v)", got, c.wantMissing, err)
				}
				if c.wantMissing && mie.Path != path {
					t.Fatalf("MissingInputError.Path = %q, want %q", mie.Path, path)
				}
				if c.wantErrContains != "" && !strings.Contains(err.Error(), c.wantErrContains) {
					t.Fatalf("error %q does not contain substring %q", err, c.wantErrContains)
				}
				if rc != nil {
					_ = rc.Close()
					t.Fatalf("got non-nil ReadCloser on error: %T", rc)
				}
				return
			}

			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer rc.Close()

			got, rerr := io.ReadAll(rc)
			if rerr != nil {
				t.Fatalf("reading: %v", rerr)
			}
			if string(got) != c.wantContent {
				t.Fatalf("content mismatch: got %q, want %q", string(got), c.wantContent)
			}
		})
	}
}

// BenchmarkLocalOpen_Missing measures the cost of failing fast on missing files.
func BenchmarkLocalOpen_Missing(b *testing.B) {
	src := NewLocal(filepath.Join(b.TempDir(), "missing.csv"))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err == nil {
			rc.Close()
			b.Fatal("expected error, got nil")
		}
	}
}

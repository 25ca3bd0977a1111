package storage

import (
	"context"
	"fmt"
	"sync"

	"salesclean/pkg/records"
)

// TableSpec describes the destination table to create: the table name and
// its columns with their cleaned kinds.
type TableSpec struct {
	Table   string
	Columns []string
	Kinds   []records.Kind
}

// SpecFor returns a TableSpec for the given columns of t. A nil columns
// slice selects every column of t.
func SpecFor(table string, t records.Table, columns []string) TableSpec {
	if columns == nil {
		columns = t.Columns
	}
	kinds := make([]records.Kind, len(columns))
	for i, c := range columns {
		kinds[i] = t.KindOf(c)
	}
	return TableSpec{Table: table, Columns: append([]string(nil), columns...), Kinds: kinds}
}

// DDLBootstrapper creates the destination table for spec through repo,
// doing nothing when it already exists.
type DDLBootstrapper func(ctx context.Context, repo Repository, spec TableSpec) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL installs fn for kind, replacing any earlier registration.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the bootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, spec TableSpec) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, spec)
}

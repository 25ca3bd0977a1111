// Package storage loads cleaned tables into a database.
//
// Backends register a Factory under a kind ("sqlite", "postgres", ...) from
// their init function; callers open a Repository with New and never import a
// backend directly. Importing salesclean/internal/storage/all enables every
// built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
}

// Repository is an open connection to a destination table.
type Repository interface {
	// CopyFrom inserts rows aligned to columns and reports how many were
	// written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs one statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Close releases the connection.
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs f for kind, replacing any earlier registration.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

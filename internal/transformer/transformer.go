// Package transformer composes table-level cleaning stages. Every stage takes
// a table and returns a new one; inputs are never modified.
package transformer

import (
	"fmt"
	"time"

	"salesclean/pkg/records"
)

// Transformer is a single table-to-table stage.
type Transformer interface {
	Apply(in records.Table) (records.Table, error)
}

// Func adapts an ordinary function to Transformer.
type Func func(in records.Table) (records.Table, error)

// Apply implements Transformer.
func (f Func) Apply(in records.Table) (records.Table, error) { return f(in) }

// Stage names a transformer for logs, metrics and reject reports.
type Stage struct {
	Name string
	T    Transformer
}

// StageResult describes one executed stage.
type StageResult struct {
	Name     string
	RowsIn   int
	RowsOut  int
	Duration time.Duration
	Err      error
}

// Dropped is the number of rows the stage removed.
func (r StageResult) Dropped() int { return r.RowsIn - r.RowsOut }

// Chain is an ordered list of stages.
type Chain []Stage

// Apply runs every stage in order and returns the final table.
func (c Chain) Apply(in records.Table) (records.Table, error) {
	return c.Run(in, nil)
}

// Run is Apply with an optional observer called after each stage, including
// the failing one. The first error stops the chain and is returned wrapped
// with the stage name.
func (c Chain) Run(in records.Table, observe func(StageResult)) (records.Table, error) {
	out := in
	for _, s := range c {
		start := time.Now()
		next, err := s.T.Apply(out)
		res := StageResult{
			Name:     s.Name,
			RowsIn:   out.Len(),
			RowsOut:  next.Len(),
			Duration: time.Since(start),
			Err:      err,
		}
		if err != nil {
			res.RowsOut = 0
		}
		if observe != nil {
			observe(res)
		}
		if err != nil {
			return records.Table{}, fmt.Errorf("%s: %w", s.Name, err)
		}
		out = next
	}
	return out, nil
}

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"salesclean/internal/schema"
	"salesclean/pkg/records"
)

// CopyFn inserts one batch of rows aligned to columns and returns the
// number of rows written. Repository.CopyFrom satisfies it.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadResult reports what LoadBatches wrote.
type LoadResult struct {
	Rows    int64
	Batches int64
}

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each, in order. It stops at the first error or when ctx is done, returning
// the totals written so far. A progress line is logged after every batch.
func LoadBatches(ctx context.Context, columns []string, rows [][]any, batchSize int, copyFn CopyFn) (LoadResult, error) {
	var res LoadResult
	if batchSize <= 0 {
		return res, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return res, fmt.Errorf("copyFn must not be nil")
	}

	var (
		start = time.Now()
		last  = start
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		res.Rows += n
		if err != nil {
			log.Printf("loader: batch #%d failed after=%d total=%d err=%v", res.Batches+1, n, res.Rows, err)
			return res, err
		}
		res.Batches++

		now := time.Now()
		since := now.Sub(last)
		rps := float64(0)
		if since > 0 {
			rps = float64(n) / since.Seconds()
		}
		log.Printf("loader: batch #%d rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			res.Batches, rps, n, res.Rows, now.Sub(start).Truncate(time.Millisecond))
		last = now
	}
	return res, nil
}

// Rows projects t onto columns as positional rows for CopyFn. Every column
// must exist in t. String cells of numeric and bool columns are converted to
// float64 and bool so they match the types EnsureTable declares; a cell that
// does not convert is an error naming its source line.
func Rows(t records.Table, columns []string) ([][]any, error) {
	kinds := make([]records.Kind, len(columns))
	for i, c := range columns {
		if !t.Has(c) {
			return nil, fmt.Errorf("storage column %q not in table (columns: %v)", c, t.Columns)
		}
		kinds[i] = t.KindOf(c)
	}
	out := make([][]any, 0, t.Len())
	for n, r := range t.Rows {
		row := make([]any, len(columns))
		for i, c := range columns {
			v, err := dbValue(r[c], kinds[i])
			if err != nil {
				return nil, fmt.Errorf("storage column %q line %d: %w", c, t.LineOf(n), err)
			}
			row[i] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func dbValue(v any, k records.Kind) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	switch k {
	case records.KindNumeric:
		f, ok := schema.ParseNumber(s)
		if !ok {
			return nil, fmt.Errorf("%q is not numeric", s)
		}
		return f, nil
	case records.KindBool:
		b, ok := schema.ParseBool(s)
		if !ok {
			return nil, fmt.Errorf("%q is not a boolean", s)
		}
		return b, nil
	}
	return s, nil
}

// Package csv reads a delimited file into an in-memory records.Table and
// writes a table back out in the same format.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"salesclean/internal/schema"
	"salesclean/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding names the input character set (utf-8, utf-16, latin1,
	// windows-1250, windows-1252, ...). Empty means UTF-8.
	Encoding string

	// NullValues lists additional cell spellings read as null.
	NullValues []string

	// NoDefaultNulls disables DefaultNullValues; only "" and NullValues
	// remain null markers.
	NoDefaultNulls bool
}

// ParseError reports input that exists but cannot be read as a table.
type ParseError struct {
	Line int // 1-based source line; 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse csv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrEmptyInput is wrapped in a ParseError when the input has no header row.
var ErrEmptyInput = errors.New("no header row")

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt   Options
	nulls map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	return &Parser{opt: opt, nulls: nullSet(opt.NullValues, !opt.NoDefaultNulls)}
}

// Parse reads a header row followed by data rows and returns the table with
// column kinds inferred from the loaded cells.
//
// Header names are kept as written (minus a leading BOM); repeated names are
// made unique as name, name.1, name.2 and blank names become "Unnamed: N".
// Rows shorter than the header are padded with nulls; longer rows and CSV
// syntax errors fail the whole parse.
func (p *Parser) Parse(r io.Reader) (records.Table, error) {
	dr, err := decodeReader(r, p.opt.Encoding)
	if err != nil {
		return records.Table{}, &ParseError{Err: err}
	}

	cr := csv.NewReader(dr)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return records.Table{}, &ParseError{Err: ErrEmptyInput}
	}
	if err != nil {
		return records.Table{}, wrapReadErr(err)
	}
	headers := uniqueHeaders(StripHeaderBOM(h))

	tbl := records.Table{Columns: headers}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records.Table{}, wrapReadErr(err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) > len(headers) {
			return records.Table{}, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(headers), len(row)),
			}
		}

		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i >= len(row) {
				rec[col] = nil
				continue
			}
			rec[col] = p.cell(row[i])
		}
		tbl.Append(rec, line)
	}

	tbl.Kinds = schema.InferKinds(tbl)
	return tbl, nil
}

func (p *Parser) cell(s string) any {
	if _, null := p.nulls[s]; null {
		return nil
	}
	return s
}

func wrapReadErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

// uniqueHeaders names blank headers "Unnamed: N" and suffixes repeats with
// ".1", ".2", ... skipping suffixes already taken by another header.
func uniqueHeaders(h []string) []string {
	out := make([]string, len(h))
	taken := make(map[string]struct{}, len(h))
	for _, name := range h {
		taken[name] = struct{}{}
	}
	used := make(map[string]int, len(h))
	for i, name := range h {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		n, dup := used[name]
		if !dup {
			used[name] = 1
			out[i] = name
			continue
		}
		for {
			cand := name + "." + strconv.Itoa(n)
			n++
			if _, clash := taken[cand]; !clash {
				taken[cand] = struct{}{}
				used[name] = n
				out[i] = cand
				break
			}
		}
	}
	return out
}

// Package parser defines how raw input bytes become a records.Table.
package parser

import (
	"io"

	"salesclean/pkg/records"
)

// Parser turns a byte stream into a table.
type Parser interface {
	Parse(r io.Reader) (records.Table, error)
}

// Package builtin contains the cleaning stages of the sales pipeline.
//
// Stage order is fixed by the pipeline: NormalizeColumns, EnforceContract,
// TrimText, CoerceNumeric, RemoveInvalid. Each stage returns a new table and
// never modifies its input.
package builtin

import "salesclean/pkg/records"

// Stage names used in reject reports, logs and metrics.
const (
	StageNormalizeColumns = "normalize_columns"
	StageValidateSchema   = "validate_schema"
	StageTrimText         = "trim_text"
	StageCoerceNumeric    = "coerce_numeric"
	StageRemoveInvalid    = "remove_invalid"
)

// RejectedRow describes a row removed by a stage.
type RejectedRow struct {
	Line   int
	Raw    records.Record
	Reason string
	Stage  string
}

// RejectFunc receives rows as they are dropped. It is optional.
type RejectFunc func(RejectedRow)

func (f RejectFunc) report(line int, raw records.Record, stage, reason string) {
	if f == nil {
		return
	}
	f(RejectedRow{Line: line, Raw: raw, Reason: reason, Stage: stage})
}

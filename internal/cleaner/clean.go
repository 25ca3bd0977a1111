// Package cleaner runs the sales cleaning pipeline: the ordered stage chain
// (Clean) and the full file-to-file run around it (Run).
package cleaner

import (
	"salesclean/internal/config"
	"salesclean/internal/metrics"
	"salesclean/internal/schema"
	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// Options configures Clean. The zero value cleans price and qty with the
// default contract and fails on duplicate normalized columns.
type Options struct {
	// Job labels stage metrics.
	Job string
	// Contract is checked right after column normalization. A zero contract
	// selects one requiring every numeric field.
	Contract schema.Contract
	// NumericFields are coerced and range-checked; default price, qty.
	NumericFields []string
	// OnDuplicate is builtin.DuplicateError or builtin.DuplicateLastWins.
	OnDuplicate string
}

// OptionsFrom maps a pipeline's clean block to Options.
func OptionsFrom(p config.Pipeline) Options {
	return Options{
		Job:           p.Job,
		Contract:      p.Clean.Contract(),
		NumericFields: p.Clean.NumericFields,
		OnDuplicate:   p.Clean.OnDuplicate,
	}
}

// Report describes a Clean call.
type Report struct {
	Stages   []transformer.StageResult
	Rejected []builtin.RejectedRow
}

// RowsIn is the number of rows given to the first stage.
func (r Report) RowsIn() int {
	if len(r.Stages) == 0 {
		return 0
	}
	return r.Stages[0].RowsIn
}

// Chain returns the ordered cleaning stages for opt. Dropped rows are passed
// to reject, which may be nil.
func Chain(opt Options, reject builtin.RejectFunc) transformer.Chain {
	fields := opt.NumericFields
	if len(fields) == 0 {
		fields = builtin.DefaultNumericFields
	}
	contract := opt.Contract
	if len(contract.Fields) == 0 {
		contract = config.Clean{NumericFields: fields}.Contract()
	}
	return transformer.Chain{
		{Name: builtin.StageNormalizeColumns, T: builtin.NormalizeColumns{OnDuplicate: opt.OnDuplicate}},
		{Name: builtin.StageValidateSchema, T: builtin.EnforceContract{Contract: contract}},
		{Name: builtin.StageTrimText, T: builtin.TrimText{}},
		{Name: builtin.StageCoerceNumeric, T: builtin.CoerceNumeric{Fields: fields, Reject: reject}},
		{Name: builtin.StageRemoveInvalid, T: builtin.RemoveInvalid{Fields: fields, Reject: reject}},
	}
}

// Clean runs the cleaning stages over in and returns the cleaned table. in
// is not modified. Each stage is recorded with metrics.RecordStep. On error
// the report covers the stages that ran, including the failing one.
func Clean(in records.Table, opt Options) (records.Table, Report, error) {
	var rep Report
	reject := func(r builtin.RejectedRow) { rep.Rejected = append(rep.Rejected, r) }

	out, err := Chain(opt, reject).Run(in, func(res transformer.StageResult) {
		rep.Stages = append(rep.Stages, res)
		metrics.RecordStep(opt.Job, res.Name, res.Err, res.Duration)
	})
	if err != nil {
		return records.Table{}, rep, err
	}
	return out, rep, nil
}

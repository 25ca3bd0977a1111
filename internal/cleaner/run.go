package cleaner

import (
	"context"
	"fmt"
	"log"
	"time"

	"salesclean/internal/config"
	"salesclean/internal/datasource"
	"salesclean/internal/datasource/file"
	"salesclean/internal/metrics"
	"salesclean/internal/parser"
	pcsv "salesclean/internal/parser/csv"
	"salesclean/internal/storage"
	"salesclean/internal/transformer"
	"salesclean/pkg/records"
)

// Step names recorded around the cleaning stages.
const (
	StepExtract = "extract"
	StepWrite   = "write"
	StepLoad    = "load"
)

// openRepository is replaced in tests.
var openRepository = storage.New

// Summary describes a completed run.
type Summary struct {
	Job          string
	Input        string
	Output       string
	RejectsPath  string
	RowsRead     int
	RowsCleaned  int
	RowsRejected int
	RowsLoaded   int64
	Batches      int64
	// Checksum is the xxh3 hash of the cleaned file's bytes.
	Checksum uint64
	Stages   []transformer.StageResult
	Duration time.Duration
}

// Run executes p: read and parse the source, clean it, write the cleaned
// file (and rejects, if configured), then optionally load the result into a
// database. Missing input, unreadable CSV, a missing required column or an
// ambiguous duplicate column abort the run before anything is written.
func Run(ctx context.Context, p config.Pipeline) (Summary, error) {
	start := time.Now()
	sum := Summary{
		Job:         p.Job,
		Input:       p.Source.File.Path,
		Output:      p.Output.Path,
		RejectsPath: p.Output.RejectsPath,
	}
	preview := p.Output.Preview()
	comma := p.Parser.Options.Rune("comma", ',')

	raw, err := extract(ctx, p)
	metrics.RecordStep(p.Job, StepExtract, err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.RowsRead = raw.Len()
	metrics.RecordRow(p.Job, metrics.RowsRead, int64(raw.Len()))
	log.Printf("extract: path=%s rows=%d columns=%d", sum.Input, raw.Len(), len(raw.Columns))
	logPreview("raw", raw, preview)

	clean, rep, err := Clean(raw, OptionsFrom(p))
	sum.Stages = rep.Stages
	if err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	sum.RowsCleaned = clean.Len()
	sum.RowsRejected = len(rep.Rejected)
	metrics.RecordRow(p.Job, metrics.RowsCleaned, int64(clean.Len()))
	metrics.RecordRow(p.Job, metrics.RowsRejected, int64(len(rep.Rejected)))
	for _, s := range rep.Stages {
		log.Printf("stage %-17s in=%d out=%d dropped=%d took=%s", s.Name, s.RowsIn, s.RowsOut, s.Dropped(), s.Duration.Truncate(time.Microsecond))
	}

	wstart := time.Now()
	sum.Checksum, err = writeCSV(p.Output.Path, comma, clean)
	if err == nil && p.Output.RejectsPath != "" {
		_, err = writeCSV(p.Output.RejectsPath, comma, rejectsTable(clean.Columns, rep.Rejected))
	}
	metrics.RecordStep(p.Job, StepWrite, err, time.Since(wstart))
	if err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}

	if p.Storage.Enabled() {
		lstart := time.Now()
		res, err := load(ctx, p, clean)
		sum.RowsLoaded, sum.Batches = res.Rows, res.Batches
		metrics.RecordStep(p.Job, StepLoad, err, time.Since(lstart))
		metrics.RecordRow(p.Job, metrics.RowsLoaded, res.Rows)
		metrics.RecordBatches(p.Job, res.Batches)
		if err != nil {
			return sum, fmt.Errorf("load %s: %w", p.Storage.Kind, err)
		}
	}

	logPreview("cleaned", clean, preview)
	sum.Duration = time.Since(start)
	log.Printf("summary: job=%s read=%d cleaned=%d rejected=%d loaded=%d batches=%d checksum=%016x output=%s elapsed=%s",
		sum.Job, sum.RowsRead, sum.RowsCleaned, sum.RowsRejected, sum.RowsLoaded, sum.Batches,
		sum.Checksum, sum.Output, sum.Duration.Truncate(time.Millisecond))
	return sum, nil
}

// extract opens and parses the source.
func extract(ctx context.Context, p config.Pipeline) (records.Table, error) {
	if p.Source.Kind != "file" {
		return records.Table{}, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
	if p.Parser.Kind != "csv" {
		return records.Table{}, fmt.Errorf("unsupported parser.kind=%s", p.Parser.Kind)
	}
	var (
		src datasource.Source = file.NewLocal(p.Source.File.Path)
		prs parser.Parser     = newCSVParser(p.Parser.Options)
	)
	rc, err := src.Open(ctx)
	if err != nil {
		return records.Table{}, err
	}
	defer rc.Close()
	return prs.Parse(rc)
}

func newCSVParser(o config.Options) *pcsv.Parser {
	return pcsv.NewParser(pcsv.Options{
		Comma:          o.Rune("comma", ','),
		Encoding:       o.String("encoding", ""),
		NullValues:     o.StringSlice("null_values"),
		NoDefaultNulls: !o.Bool("keep_default_null", true),
	})
}

// load writes clean to the configured database, creating the table first
// when auto_create_table is set.
func load(ctx context.Context, p config.Pipeline, clean records.Table) (storage.LoadResult, error) {
	db := p.Storage.DB
	columns := db.Columns
	if len(columns) == 0 {
		columns = clean.Columns
	}
	rows, err := storage.Rows(clean, columns)
	if err != nil {
		return storage.LoadResult{}, err
	}

	repo, err := openRepository(ctx, storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     db.DSN,
		Table:   db.Table,
		Columns: columns,
	})
	if err != nil {
		return storage.LoadResult{}, fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	if db.AutoCreateTable {
		if err := storage.EnsureTable(ctx, p.Storage.Kind, repo, storage.SpecFor(db.Table, clean, columns)); err != nil {
			return storage.LoadResult{}, fmt.Errorf("apply DDL: %w", err)
		}
		log.Printf("load: table ensured: %s", db.Table)
	}
	log.Printf("load: kind=%s table=%s rows=%d batch_size=%d", p.Storage.Kind, db.Table, len(rows), p.Runtime.BatchSize)
	return storage.LoadBatches(ctx, columns, rows, p.Runtime.BatchSize, repo.CopyFrom)
}

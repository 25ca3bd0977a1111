package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pcsv "salesclean/internal/parser/csv"
	"salesclean/internal/schema"
	"salesclean/pkg/records"
)

// IssueSeverity is the severity of a configuration finding.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one finding of ValidatePipeline. Path is a dotted path into the
// file, e.g. "parser.options.comma".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var knownStorage = map[string]struct{}{
	"sqlite": {}, "postgres": {}, "mysql": {}, "mssql": {},
}

var knownParserOptions = map[string]struct{}{
	"comma": {}, "encoding": {}, "null_values": {}, "keep_default_null": {},
}

// ValidatePipeline lints p without modifying it. Run it after defaults are
// applied.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(p.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels logs and metrics")
	}

	switch p.Source.Kind {
	case "file":
		if strings.TrimSpace(p.Source.File.Path) == "" {
			add(SeverityError, "source.file.path", "file source requires a non-empty path")
		}
	case "":
		add(SeverityError, "source.kind", "source.kind must not be empty")
	default:
		add(SeverityError, "source.kind", "unsupported source kind %q (want file)", p.Source.Kind)
	}

	validateParser(p.Parser, add)
	validateClean(p.Clean, add)

	if strings.TrimSpace(p.Output.Path) == "" {
		add(SeverityError, "output.path", "output.path must not be empty")
	}
	if p.Output.RejectsPath != "" && p.Output.RejectsPath == p.Output.Path {
		add(SeverityError, "output.rejects_path", "rejects_path must differ from output.path")
	}
	if p.Output.Path != "" && p.Output.Path == p.Source.File.Path {
		add(SeverityError, "output.path", "output.path must differ from the input path")
	}
	if n := p.Output.Preview(); n < 0 {
		add(SeverityError, "output.preview_rows", "preview_rows must be >= 0, got %d", n)
	}

	validateStorage(p.Storage, add)

	if p.Runtime.BatchSize <= 0 {
		add(SeverityError, "runtime.batch_size", "batch_size must be > 0, got %d", p.Runtime.BatchSize)
	}
	return issues
}

type addFunc func(sev IssueSeverity, path, format string, args ...any)

func validateParser(p Parser, add addFunc) {
	if p.Kind != "csv" {
		add(SeverityError, "parser.kind", "unsupported parser kind %q (want csv)", p.Kind)
		return
	}
	for k := range p.Options {
		if _, ok := knownParserOptions[k]; !ok {
			add(SeverityWarning, "parser.options."+k, "unknown csv option %q is ignored", k)
		}
	}
	if v, ok := p.Options["comma"]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr || utf8.RuneCountInString(s) != 1:
			add(SeverityError, "parser.options.comma", "comma must be a single character")
		case s == "\"" || s == "\n" || s == "\r":
			add(SeverityError, "parser.options.comma", "comma %q is not a valid delimiter", s)
		}
	}
	if enc := p.Options.String("encoding", ""); enc != "" && !pcsv.KnownEncoding(enc) {
		add(SeverityError, "parser.options.encoding", "unknown encoding %q", enc)
	}
}

func validateClean(c Clean, add addFunc) {
	switch c.OnDuplicate {
	case "error", "last-wins":
	default:
		add(SeverityError, "clean.on_duplicate", "on_duplicate must be error or last-wins, got %q", c.OnDuplicate)
	}

	seen := map[string]bool{}
	for i, f := range c.NumericFields {
		path := fmt.Sprintf("clean.numeric_fields[%d]", i)
		switch {
		case strings.TrimSpace(f) == "":
			add(SeverityError, path, "numeric field name must not be empty")
		case seen[f]:
			add(SeverityWarning, path, "duplicate numeric field %q", f)
		}
		seen[f] = true
	}

	if c.Schema == nil {
		return
	}
	if err := c.Schema.Validate(); err != nil {
		add(SeverityError, "clean.schema", "%v", err)
		return
	}
	for _, f := range c.NumericFields {
		fd, ok := c.Schema.Field(f)
		if !ok {
			add(SeverityWarning, "clean.schema", "numeric field %q is not declared; a missing column fails at coerce_numeric", f)
			continue
		}
		if k, _ := schema.ParseKind(fd.Type); k != records.KindNumeric {
			add(SeverityWarning, "clean.schema", "numeric field %q is declared as %q", f, fd.Type)
		}
	}
}

func validateStorage(s Storage, add addFunc) {
	if !s.Enabled() {
		return
	}
	if _, ok := knownStorage[s.Kind]; !ok {
		add(SeverityError, "storage.kind", "unsupported storage kind %q (want sqlite, postgres, mysql or mssql)", s.Kind)
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		add(SeverityError, "storage.db.dsn", "dsn must not be empty")
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		add(SeverityError, "storage.db.table", "table must not be empty")
	}
	seen := map[string]bool{}
	for i, c := range s.DB.Columns {
		if seen[c] {
			add(SeverityError, fmt.Sprintf("storage.db.columns[%d]", i), "duplicate column %q", c)
		}
		seen[c] = true
	}
}

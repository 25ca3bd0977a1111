// Package config defines the pipeline file that drives a salesclean run.
//
// A pipeline is decoded from JSON or, for .yaml/.yml files, YAML:
//
//	{
//	  "job":     "sales",
//	  "source":  { "kind": "file", "file": { "path": "data/raw_sales.csv" } },
//	  "parser":  { "kind": "csv", "options": { "comma": ",", "encoding": "utf-8" } },
//	  "clean":   { "numeric_fields": ["price", "qty"], "on_duplicate": "error" },
//	  "output":  { "path": "data/cleaned_sales.csv", "rejects_path": "data/rejects.csv" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "sales.db", "table": "sales", "auto_create_table": true } },
//	  "runtime": { "batch_size": 500 }
//	}
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"salesclean/internal/schema"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultJob         = "salesclean"
	DefaultPreviewRows = 5
	DefaultBatchSize   = 1000
)

// Pipeline is the top-level pipeline file.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job     string        `json:"job" yaml:"job"`
	Source  Source        `json:"source" yaml:"source"`
	Parser  Parser        `json:"parser" yaml:"parser"`
	Clean   Clean         `json:"clean" yaml:"clean"`
	Output  Output        `json:"output" yaml:"output"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// Source identifies the input. The only kind is "file".
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
}

// SourceFile holds the "file" source settings.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// Parser selects the input format. The only kind is "csv", with options
//
//	comma (string), encoding (string), null_values ([]string),
//	keep_default_null (bool, default true)
type Parser struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Options Options `json:"options" yaml:"options"`
}

// Clean configures the cleaning stages.
type Clean struct {
	// NumericFields are coerced and range-checked. Defaults to price, qty.
	NumericFields []string `json:"numeric_fields" yaml:"numeric_fields"`
	// OnDuplicate is "error" (default) or "last-wins".
	OnDuplicate string `json:"on_duplicate" yaml:"on_duplicate"`
	// Schema declares required columns and their types. When nil, every
	// numeric field is required and numeric.
	Schema *schema.Contract `json:"schema" yaml:"schema"`
}

// Output configures the files a run writes.
type Output struct {
	Path string `json:"path" yaml:"path"`
	// RejectsPath, when set, receives one CSV row per dropped record.
	RejectsPath string `json:"rejects_path" yaml:"rejects_path"`
	// PreviewRows is the number of rows logged before and after cleaning;
	// nil means DefaultPreviewRows and 0 disables previews.
	PreviewRows *int `json:"preview_rows" yaml:"preview_rows"`
}

// Storage optionally loads the cleaned table into a database. An empty kind
// or "none" disables it.
type Storage struct {
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// Enabled reports whether a database load is configured.
func (s Storage) Enabled() bool {
	return s.Kind != "" && s.Kind != "none"
}

// DBConfig configures the database sink.
type DBConfig struct {
	DSN   string `json:"dsn" yaml:"dsn"`
	Table string `json:"table" yaml:"table"`
	// Columns selects and orders the loaded columns; empty loads all.
	Columns []string `json:"columns" yaml:"columns"`
	// AutoCreateTable issues CREATE TABLE IF NOT EXISTS before the load.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`
}

// RuntimeConfig controls batching of the database load.
type RuntimeConfig struct {
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Default returns a pipeline reading in and writing out with every default
// applied.
func Default(in, out string) Pipeline {
	p := Pipeline{
		Source: Source{Kind: "file", File: SourceFile{Path: in}},
		Output: Output{Path: out},
	}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills every unset field that has a default.
func (p *Pipeline) ApplyDefaults() {
	if p.Job == "" {
		p.Job = DefaultJob
	}
	if p.Source.Kind == "" {
		p.Source.Kind = "file"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if len(p.Clean.NumericFields) == 0 {
		p.Clean.NumericFields = []string{"price", "qty"}
	}
	if p.Clean.OnDuplicate == "" {
		p.Clean.OnDuplicate = "error"
	}
	if p.Runtime.BatchSize == 0 {
		p.Runtime.BatchSize = DefaultBatchSize
	}
}

// Contract returns the configured schema, or one requiring every numeric
// field as numeric.
func (c Clean) Contract() schema.Contract {
	if c.Schema != nil {
		return *c.Schema
	}
	fields := c.NumericFields
	if len(fields) == 0 {
		return schema.DefaultContract()
	}
	out := schema.Contract{Name: "sales"}
	for _, f := range fields {
		out.Fields = append(out.Fields, schema.Field{Name: f, Type: "numeric", Required: true})
	}
	return out
}

// Preview returns the effective preview row count.
func (o Output) Preview() int {
	if o.PreviewRows == nil {
		return DefaultPreviewRows
	}
	return *o.PreviewRows
}

// Options holds parser settings whose shape depends on the parser kind.
// Accessors return def when a key is missing or has the wrong type.
type Options map[string]any

// String returns the string at key, or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool at key, or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Rune returns the first rune of the string at key, or def when missing or
// empty.
func (o Options) Rune(key string, def rune) rune {
	if s, ok := o[key].(string); ok && s != "" {
		return []rune(s)[0]
	}
	return def
}

// StringSlice returns the strings of the array at key, skipping other
// element types, or nil.
func (o Options) StringSlice(key string) []string {
	switch vv := o[key].(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, x := range vv {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return vv
	}
	return nil
}

// UnmarshalJSON decodes a missing or null options object as an empty map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// UnmarshalYAML decodes a null options node as an empty map.
func (o *Options) UnmarshalYAML(n *yaml.Node) error {
	var tmp map[string]any
	if err := n.Decode(&tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = Options(tmp)
	return nil
}

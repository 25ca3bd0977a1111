package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline file, choosing YAML for .yaml/.yml and JSON
// otherwise, and applies defaults. Unknown fields are errors.
func Load(path string) (Pipeline, error) {
	if path == "" {
		return Pipeline{}, errors.New("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return Pipeline{}, fmt.Errorf("config file not found: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}

	var p Pipeline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = DecodeYAML(data)
	default:
		p, err = DecodeJSON(data)
	}
	if err != nil {
		return Pipeline{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return p, nil
}

// DecodeJSON decodes a JSON pipeline and applies defaults.
func DecodeJSON(data []byte) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, err
	}
	p.ApplyDefaults()
	return p, nil
}

// DecodeYAML decodes a YAML pipeline and applies defaults.
func DecodeYAML(data []byte) (Pipeline, error) {
	var p Pipeline
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, err
	}
	p.ApplyDefaults()
	return p, nil
}

// Package harness provides a conformance testing framework for the
// versioned query pipeline.
//
// A scenario describes one end-to-end pass: a CUE catalog document, a
// query name, a target server version, and the raw JSON response a
// server of that version would return. The harness loads the catalog,
// prepares the query, backfills the response with the recorded defaults,
// and snapshots the whole outcome for golden-file comparison.
//
// Scenarios are deliberately transport-free: the "response" is supplied
// verbatim in the scenario file, standing in for what the excluded
// network layer would have returned. What the harness validates is the
// correctness contract of this module - byte-for-byte text generation
// and shape-preserving backfill - across server versions.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalog document, relative to the
	// scenario file location.
	Catalog string `yaml:"catalog"`

	// Query names the catalog entry to prepare.
	Query string `yaml:"query"`

	// Version is the target server version to prepare for.
	Version string `yaml:"version"`

	// Response is the raw JSON body a server of Version would return for
	// the prepared document. May be `{}` when the whole document was
	// version-excluded.
	Response string `yaml:"response"`

	// Assertions validate the prepared text, formals, and backfilled
	// response beyond the golden-file comparison.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the directory the scenario file was loaded from; catalog
	// paths resolve against it.
	dir string
}

// Assertion validates one aspect of a scenario result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "text": prepared text equals Text exactly
	// - "text_null": prepared text is nil (no network call)
	// - "formal_names": renamed formals equal Names, in order
	// - "response_property": backfilled response has Value at dot Path
	Type string `yaml:"type"`

	// Text is the expected wire text (used by "text").
	Text string `yaml:"text,omitempty"`

	// Names are the expected renamed formal names (used by "formal_names").
	Names []string `yaml:"names,omitempty"`

	// Path is a dot-separated property path (used by "response_property").
	Path string `yaml:"path,omitempty"`

	// Value is the expected property value (used by "response_property").
	Value any `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertText             = "text"
	AssertTextNull         = "text_null"
	AssertFormalNames      = "formal_names"
	AssertResponseProperty = "response_property"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if scenario.Catalog == "" {
		return nil, fmt.Errorf("scenario %s: catalog is required", path)
	}
	if scenario.Query == "" {
		return nil, fmt.Errorf("scenario %s: query is required", path)
	}
	if scenario.Version == "" {
		return nil, fmt.Errorf("scenario %s: version is required", path)
	}

	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// CatalogPath resolves the scenario's catalog path against the scenario
// file location.
func (s *Scenario) CatalogPath() string {
	if filepath.IsAbs(s.Catalog) || s.dir == "" {
		return s.Catalog
	}
	return filepath.Join(s.dir, s.Catalog)
}

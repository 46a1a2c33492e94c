package harness

import (
	"fmt"

	"github.com/salewski/sourcegraph--cody/internal/backfill"
	"github.com/salewski/sourcegraph--cody/internal/catalog"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// Result captures the outcome of running one scenario.
type Result struct {
	// Prepared is the serialization output for the scenario's query and
	// version.
	Prepared *querytext.PreparedQuery

	// Response is the scenario's raw response after default backfill.
	Response respval.Value
}

// Run executes a scenario end to end: load catalog, prepare the query
// for the target version, decode the supplied response, and backfill it
// with the recorded defaults.
func Run(scenario *Scenario) (*Result, error) {
	cat, err := catalog.LoadFile(scenario.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	spec, ok := cat.Get(scenario.Query)
	if !ok {
		return nil, fmt.Errorf("scenario %s: query %q not in catalog", scenario.Name, scenario.Query)
	}

	prepared, err := querytext.Prepare(scenario.Version, spec.Fields...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: prepare: %w", scenario.Name, err)
	}

	raw := scenario.Response
	if raw == "" {
		raw = "{}"
	}
	response, err := respval.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: decode response: %w", scenario.Name, err)
	}

	filled, err := backfill.ApplyDefaults(response, prepared.Defaults)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: backfill: %w", scenario.Name, err)
	}

	return &Result{Prepared: prepared, Response: filled}, nil
}

// Snapshot is the serialized form of a Result used for golden-file
// comparison. The text key is omitted (not null) for degenerate
// documents so snapshots stay representable in canonical-friendly JSON.
func (r *Result) Snapshot(scenarioName, version string) (respval.Object, error) {
	formals := make(respval.Array, len(r.Prepared.Formals))
	for i, f := range r.Prepared.Formals {
		formals[i] = respval.Object{
			"name": respval.String(f.Name),
			"type": respval.String(string(f.Type)),
		}
	}

	snapshot := respval.Object{
		"scenario_name":  respval.String(scenarioName),
		"target_version": respval.String(version),
		"formals":        formals,
		"defaults_count": respval.Int(int64(len(r.Prepared.Defaults))),
		"response":       r.Response,
	}
	if r.Prepared.Text != nil {
		snapshot["text"] = respval.String(*r.Prepared.Text)
	}

	return snapshot, nil
}

package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// Snapshots marshal through respval, which orders object keys by RFC
// 8785, so repeated runs over the same inputs produce byte-identical
// files.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Scenario assertions are also evaluated; failures surface as test
// errors alongside the golden comparison.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, failure := range EvaluateAssertions(result, scenario.Assertions) {
		t.Errorf("scenario %s: %v", scenario.Name, failure)
	}

	snapshot, err := result.Snapshot(scenario.Name, scenario.Version)
	if err != nil {
		return err
	}

	data, err := respval.Marshal(snapshot)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

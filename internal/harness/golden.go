package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/statematch/statematch/internal/engine"
)

// AssertGolden compares the report's canonical JSON against the golden
// file testdata/golden/{name}.golden. Canonical serialization keeps the
// snapshot byte-stable across runs.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, report *engine.Report) error {
	t.Helper()

	reportJSON, err := report.CanonicalJSON()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, reportJSON)

	return nil
}

// RunWithGolden runs a fixture, checks its expectation, and snapshots the
// report against the fixture's golden file.
func RunWithGolden(t *testing.T, fixture *Fixture) error {
	t.Helper()

	report, err := fixture.Run()
	if err != nil {
		return err
	}
	if err := fixture.Check(report); err != nil {
		return err
	}

	return AssertGolden(t, fixture.Name, report)
}

package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/engine"
	"github.com/statematch/statematch/internal/verifier"
)

// Fixture defines one validation test case.
type Fixture struct {
	// Name uniquely identifies this fixture; golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this fixture exercises.
	Description string `yaml:"description"`

	// Verifier is the verifier spec document.
	Verifier map[string]any `yaml:"verifier"`

	// Observed is the observed outcome document. Its mutations may be
	// listed inline, or supplied via DiffSQL instead.
	Observed map[string]any `yaml:"observed,omitempty"`

	// DiffSQL holds raw diff statements to parse into the observed
	// mutation list. Mutually exclusive with mutations in Observed.
	DiffSQL string `yaml:"diff_sql,omitempty"`

	// Expect is the expected report outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the expected aggregate outcome of running a fixture.
type Expectation struct {
	Result bool `yaml:"result"`
	Passed int  `yaml:"passed"`
	Total  int  `yaml:"total"`
}

// LoadFixture reads and parses a fixture YAML file. Unknown fields are
// rejected, so typos like "expects:" fail at load time.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var fixture Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFixture(&fixture); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	return &fixture, nil
}

func validateFixture(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if f.Verifier == nil {
		return fmt.Errorf("verifier is required")
	}
	if f.DiffSQL != "" {
		if _, ok := f.Observed["mutations"]; ok {
			return fmt.Errorf("diff_sql and observed.mutations are mutually exclusive")
		}
		if _, ok := f.Observed["state"]; ok {
			return fmt.Errorf("diff_sql and observed.state are mutually exclusive")
		}
	}
	if f.Expect.Total < f.Expect.Passed {
		return fmt.Errorf("expect.passed exceeds expect.total")
	}
	return nil
}

// Run evaluates the fixture's verifier against its observed outcome and
// returns the resulting report.
func (f *Fixture) Run() (*engine.Report, error) {
	verifierJSON, err := json.Marshal(f.Verifier)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: encode verifier: %w", f.Name, err)
	}
	spec, err := verifier.Parse(verifierJSON)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}

	observed, err := f.observed()
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}

	report, err := engine.Validate(spec, observed)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}
	return report, nil
}

func (f *Fixture) observed() (*engine.Observed, error) {
	doc := f.Observed
	if doc == nil {
		doc = map[string]any{}
	}

	observedJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode observed: %w", err)
	}
	observed, err := engine.ParseObserved(observedJSON)
	if err != nil {
		return nil, err
	}

	if f.DiffSQL != "" {
		result := diff.Parse(f.DiffSQL)
		if result.Dropped > 0 {
			return nil, fmt.Errorf("diff_sql: %d statement(s) did not parse", result.Dropped)
		}
		observed.Mutations = result.Mutations
	}

	return observed, nil
}

// Check verifies the report against the fixture's expectation.
func (f *Fixture) Check(report *engine.Report) error {
	if report.Success != f.Expect.Result {
		return fmt.Errorf("fixture %s: result = %v, expected %v",
			f.Name, report.Success, f.Expect.Result)
	}
	if report.Total != f.Expect.Total {
		return fmt.Errorf("fixture %s: total = %d, expected %d",
			f.Name, report.Total, f.Expect.Total)
	}
	if report.Passed != f.Expect.Passed {
		return fmt.Errorf("fixture %s: passed = %d, expected %d",
			f.Name, report.Passed, f.Expect.Passed)
	}
	return nil
}

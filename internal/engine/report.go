package engine

import (
	"encoding/json"
	"fmt"

	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/ir"
	"github.com/statematch/statematch/internal/verifier"
)

// CheckKind identifies what a check result evaluated.
type CheckKind string

// Check kinds, named as they appear on the wire.
const (
	CheckMutation    CheckKind = "mutation"
	CheckReturnValue CheckKind = "return_value"
	CheckFinalURL    CheckKind = "final_url"
	CheckAgentError  CheckKind = "agent_error"
)

// CheckResult is one evaluated verifier item.
//
// For mutation checks, Expected is the verifier.Mutation and Actual is
// the matched *diff.Mutation (nil when nothing matched). For scalar
// checks, Expected is the verifier.ValueSpec and Actual the observed
// scalar (nil when absent).
type CheckResult struct {
	Success  bool      `json:"success"`
	Actual   any       `json:"actual"`
	Expected any       `json:"expected"`
	Kind     CheckKind `json:"type"`
}

// Label renders a short human description of the check for CLI output:
// the action and table for mutations, the expected value for scalars.
func (c CheckResult) Label() string {
	switch expected := c.Expected.(type) {
	case verifier.Mutation:
		return fmt.Sprintf("%s on %s", expected.Action, expected.TableName)
	case verifier.ValueSpec:
		rendered, err := json.Marshal(expected)
		if err != nil {
			return string(c.Kind)
		}
		return string(rendered)
	}
	return string(c.Kind)
}

// Report is the aggregate outcome of one validation run.
type Report struct {
	// Checks holds one result per requested check, in spec order:
	// mutations first, then return_value, final_url, agent_error.
	Checks []CheckResult `json:"verifiers"`

	// Success is the logical AND over all check results; vacuously true
	// when nothing was checked.
	Success bool `json:"result"`

	Total  int `json:"totalVerifiers"`
	Passed int `json:"passedVerifiers"`
}

// CanonicalMap converts the report to the plain map form consumed by
// ir.MarshalCanonical. An absent actual is omitted rather than emitted
// as null, so snapshots stay compact.
func (r *Report) CanonicalMap() map[string]any {
	checks := make([]any, len(r.Checks))
	for i, c := range r.Checks {
		check := map[string]any{
			"success": c.Success,
			"type":    string(c.Kind),
		}

		switch expected := c.Expected.(type) {
		case verifier.Mutation:
			check["expected"] = expected.CanonicalMap()
		case verifier.ValueSpec:
			check["expected"] = verifier.CanonicalValue(expected)
		}

		switch actual := c.Actual.(type) {
		case *diff.Mutation:
			if actual != nil {
				check["actual"] = actual.CanonicalMap()
			}
		case ir.Value:
			check["actual"] = actual
		}

		checks[i] = check
	}

	return map[string]any{
		"verifiers":       checks,
		"result":          r.Success,
		"totalVerifiers":  r.Total,
		"passedVerifiers": r.Passed,
	}
}

// CanonicalJSON renders the report as canonical JSON, the byte-stable
// form used for golden snapshots and the run store.
func (r *Report) CanonicalJSON() ([]byte, error) {
	return ir.MarshalCanonical(r.CanonicalMap())
}

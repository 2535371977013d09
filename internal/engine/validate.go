package engine

import (
	"encoding/json"
	"fmt"

	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/ir"
	"github.com/statematch/statematch/internal/verifier"
)

// Observed is the actual outcome a spec is validated against: the
// ordered mutation list plus optional scalar outcomes. Nil scalar fields
// read as absent; matching treats absent and null alike.
type Observed struct {
	Mutations []diff.Mutation

	ReturnValue ir.Value
	FinalURL    ir.Value
	AgentError  ir.Value
}

// ParseObserved decodes an observed state from JSON, accepting the same
// envelope tolerance as the verifier side: mutations either under a
// "state" wrapper or at the top level.
func ParseObserved(data []byte) (*Observed, error) {
	var raw struct {
		State *struct {
			Mutations []diff.Mutation `json:"mutations"`
		} `json:"state"`
		Mutations []diff.Mutation `json:"mutations"`

		ReturnValue json.RawMessage `json:"return_value"`
		FinalURL    json.RawMessage `json:"final_url"`
		AgentError  json.RawMessage `json:"agent_error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse observed state: %w", err)
	}

	obs := &Observed{}
	if raw.State != nil {
		obs.Mutations = raw.State.Mutations
	} else {
		obs.Mutations = raw.Mutations
	}

	var err error
	if obs.ReturnValue, err = optionalValue(raw.ReturnValue); err != nil {
		return nil, fmt.Errorf("return_value: %w", err)
	}
	if obs.FinalURL, err = optionalValue(raw.FinalURL); err != nil {
		return nil, fmt.Errorf("final_url: %w", err)
	}
	if obs.AgentError, err = optionalValue(raw.AgentError); err != nil {
		return nil, fmt.Errorf("agent_error: %w", err)
	}

	return obs, nil
}

func optionalValue(raw json.RawMessage) (ir.Value, error) {
	if raw == nil {
		return nil, nil
	}
	return ir.FromJSON(raw)
}

// Validate evaluates a verifier spec against an observed state and
// aggregates the results into a report.
//
// For each expected mutation, in spec order, the observed mutations are
// scanned in their given order and the FIRST match is selected. The
// search is non-consuming: a single observed mutation may satisfy any
// number of verifier entries, so overlapping expectations on the same
// mutation all report success.
//
// Scalar checks are appended for each scalar expectation present in the
// spec, explicit null included.
//
// The only error is an unrecognized spec type; every other condition is
// an ordinary failed check.
func Validate(spec *verifier.Spec, observed *Observed) (*Report, error) {
	if spec.Type != verifier.TypeStateMutationMatch {
		return nil, fmt.Errorf("unsupported verifier type %q (want %q)",
			spec.Type, verifier.TypeStateMutationMatch)
	}

	report := &Report{}

	for _, expected := range spec.Mutations {
		var found *diff.Mutation
		for i := range observed.Mutations {
			if MatchMutation(expected, observed.Mutations[i]) {
				found = &observed.Mutations[i]
				break
			}
		}

		report.Checks = append(report.Checks, CheckResult{
			Success:  found != nil,
			Actual:   found,
			Expected: expected,
			Kind:     CheckMutation,
		})
	}

	appendScalar := func(kind CheckKind, spec verifier.ValueSpec, actual ir.Value) {
		if spec == nil {
			return
		}
		report.Checks = append(report.Checks, CheckResult{
			Success:  MatchValue(spec, actual),
			Actual:   actual,
			Expected: spec,
			Kind:     kind,
		})
	}

	appendScalar(CheckReturnValue, spec.ReturnValue, observed.ReturnValue)
	appendScalar(CheckFinalURL, spec.FinalURL, observed.FinalURL)
	appendScalar(CheckAgentError, spec.AgentError, observed.AgentError)

	report.Success = true
	report.Total = len(report.Checks)
	for _, check := range report.Checks {
		if check.Success {
			report.Passed++
		} else {
			report.Success = false
		}
	}

	return report, nil
}

package engine

import (
	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/ir"
	"github.com/statematch/statematch/internal/verifier"
)

// MatchValue reports whether an actual value satisfies one expected-value
// specification. Pure predicate, exhaustive over the ValueSpec variants.
//
// A nil actual behaves as null, which is how a field missing from a
// record reads. Regexes match strings only: a non-string actual fails
// even if its rendered form would satisfy the pattern.
func MatchValue(spec verifier.ValueSpec, actual ir.Value) bool {
	switch s := spec.(type) {
	case verifier.Literal:
		return ir.Equal(s.Value, actual)
	case verifier.Regex:
		str, ok := actual.(ir.String)
		return ok && s.MatchString(string(str))
	case verifier.Variable:
		// Placeholder for variable capture; always matches.
		return true
	case verifier.Semantic:
		// Placeholder for an embedding/LLM judge; always matches.
		return true
	case verifier.Unknown:
		return false
	default:
		return false
	}
}

// MatchMutation reports whether one observed mutation satisfies one
// mutation verifier. Pure predicate.
//
// The action/table gate applies first: the verifier action must map to
// the record's method and the table names must be equal. Field
// constraints then use subset semantics per side:
//   - INSERT: values against the record map
//   - UPDATE: values against the record map, where against the where map
//   - DELETE: where against the where map
//
// An absent constraint map leaves that side unconstrained, so a bare
// {action, tablename} verifier matches any mutation of that shape.
func MatchMutation(v verifier.Mutation, m diff.Mutation) bool {
	method, ok := v.Method()
	if !ok || method != m.Method || v.TableName != m.Table {
		return false
	}

	switch m.Method {
	case diff.MethodInsert:
		return matchFields(v.Values, m.Record)
	case diff.MethodUpdate:
		return matchFields(v.Values, m.Record) && matchFields(v.Where, m.Where)
	case diff.MethodDelete:
		return matchFields(v.Where, m.Where)
	}
	return false
}

// matchFields checks every constrained field against the actual map.
// Keys present in the actual map but not in the constraints are ignored;
// a constrained key missing from the actual map reads as null.
func matchFields(specs map[string]verifier.ValueSpec, actual ir.Object) bool {
	for key, spec := range specs {
		if !MatchValue(spec, actual[key]) {
			return false
		}
	}
	return true
}

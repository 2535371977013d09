package verifier

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/ir"
)

// TypeStateMutationMatch is the only spec discriminator the engine
// understands.
const TypeStateMutationMatch = "state_mutation_match"

// Type tags recognized inside a ValueSpec object.
const (
	tagRegex    = "regex"
	tagVariable = "mutation_variable"
	tagSemantic = "semantic_match_variable"
)

// ValueSpec is a sealed union of expected-value specifications. Only
// Literal, Regex, Variable, Semantic, and Unknown implement it. Matching
// dispatches exhaustively over these variants, so adding a matcher kind
// is a localized change.
type ValueSpec interface {
	valueSpec() // Sealed - only these types implement it
}

// Literal requires exact, type-significant equality with the actual
// value. Untagged JSON values decode to this variant.
type Literal struct {
	Value ir.Value
}

func (Literal) valueSpec() {}

// MarshalJSON implements json.Marshaler for Literal.
func (l Literal) MarshalJSON() ([]byte, error) {
	if l.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Value)
}

// Regex requires the actual value to be a string satisfying the pattern.
// Search semantics: the pattern matches anywhere unless it anchors itself.
type Regex struct {
	Pattern string
	re      *regexp.Regexp
}

func (Regex) valueSpec() {}

// NewRegex compiles a regex spec, failing on an invalid pattern.
func NewRegex(pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return Regex{Pattern: pattern, re: re}, nil
}

// MustRegex is NewRegex that panics on error, for tests and literals.
func MustRegex(pattern string) Regex {
	r, err := NewRegex(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// MatchString reports whether the pattern matches s.
func (r Regex) MatchString(s string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(s)
}

// MarshalJSON implements json.Marshaler for Regex.
func (r Regex) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"type": tagRegex, "regex": r.Pattern})
}

// Variable is a named wildcard: it always matches. The name is reserved
// for future variable binding and capture.
type Variable struct {
	Name string
}

func (Variable) valueSpec() {}

// MarshalJSON implements json.Marshaler for Variable.
func (v Variable) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"type": tagVariable, "name": v.Name})
}

// Semantic is a placeholder for an embedding- or LLM-based judge. It
// always matches; only the description is carried.
type Semantic struct {
	Description string
}

func (Semantic) valueSpec() {}

// MarshalJSON implements json.Marshaler for Semantic.
func (s Semantic) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"type": tagSemantic, "description": s.Description})
}

// Unknown is an object that carried an unrecognized type tag. It never
// matches anything, which is how the matcher has always treated specs it
// does not understand. The raw JSON is preserved for round-tripping.
type Unknown struct {
	TypeName string
	Raw      json.RawMessage
}

func (Unknown) valueSpec() {}

// MarshalJSON implements json.Marshaler for Unknown.
func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(map[string]string{"type": u.TypeName})
	}
	return u.Raw, nil
}

// UnmarshalValueSpec decodes one expected-value specification. An object
// whose "type" key holds a recognized tag decodes to the corresponding
// variant; any other JSON value is a literal.
func UnmarshalValueSpec(data []byte) (ValueSpec, error) {
	trimmed := data
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value spec")
	}

	if trimmed[0] != '{' {
		val, err := ir.FromJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return Literal{Value: val}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	tagRaw, tagged := fields["type"]
	var tag string
	if tagged {
		// A non-string type field means this is a plain literal object.
		if json.Unmarshal(tagRaw, &tag) != nil {
			tagged = false
		}
	}

	if !tagged {
		val, err := ir.FromJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return Literal{Value: val}, nil
	}

	switch tag {
	case tagRegex:
		pattern, err := requiredString(fields, "regex", tag)
		if err != nil {
			return nil, err
		}
		return NewRegex(pattern)

	case tagVariable:
		name, err := requiredString(fields, "name", tag)
		if err != nil {
			return nil, err
		}
		return Variable{Name: name}, nil

	case tagSemantic:
		desc, err := requiredString(fields, "description", tag)
		if err != nil {
			return nil, err
		}
		return Semantic{Description: desc}, nil

	default:
		raw := make(json.RawMessage, len(trimmed))
		copy(raw, trimmed)
		return Unknown{TypeName: tag, Raw: raw}, nil
	}
}

// requiredString extracts a mandatory string field from a tagged spec.
func requiredString(fields map[string]json.RawMessage, key, tag string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%s spec missing %q field", tag, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s spec field %q must be a string: %w", tag, key, err)
	}
	return s, nil
}

// CanonicalValue converts a ValueSpec to the plain form consumed by
// ir.MarshalCanonical.
func CanonicalValue(s ValueSpec) any {
	switch spec := s.(type) {
	case Literal:
		return spec.Value
	case Regex:
		return map[string]any{"type": tagRegex, "regex": spec.Pattern}
	case Variable:
		return map[string]any{"type": tagVariable, "name": spec.Name}
	case Semantic:
		return map[string]any{"type": tagSemantic, "description": spec.Description}
	case Unknown:
		return map[string]any{"type": spec.TypeName}
	default:
		return nil
	}
}

// Mutation is one expected mutation.
type Mutation struct {
	// Action is the expected SQL action: INSERT, UPDATE, or DELETE.
	Action string `json:"action"`

	// TableName names the table the mutation must target.
	TableName string `json:"tablename"`

	// Values constrains the record side (insert/update). Subset
	// semantics: unlisted fields are unconstrained.
	Values map[string]ValueSpec `json:"values,omitempty"`

	// Where constrains the where side (update/delete). Subset semantics.
	Where map[string]ValueSpec `json:"where,omitempty"`
}

// Method maps the verifier action to the diff method it gates on.
// Returns false for unrecognized actions, which therefore never match.
func (m Mutation) Method() (diff.Method, bool) {
	switch m.Action {
	case "INSERT":
		return diff.MethodInsert, true
	case "UPDATE":
		return diff.MethodUpdate, true
	case "DELETE":
		return diff.MethodDelete, true
	}
	return "", false
}

// UnmarshalJSON implements json.Unmarshaler for Mutation.
func (m *Mutation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action    string                     `json:"action"`
		TableName string                     `json:"tablename"`
		Values    map[string]json.RawMessage `json:"values"`
		Where     map[string]json.RawMessage `json:"where"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values, err := unmarshalSpecMap(raw.Values)
	if err != nil {
		return fmt.Errorf("values: %w", err)
	}
	where, err := unmarshalSpecMap(raw.Where)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}

	*m = Mutation{
		Action:    raw.Action,
		TableName: raw.TableName,
		Values:    values,
		Where:     where,
	}
	return nil
}

// unmarshalSpecMap decodes a field→ValueSpec map, preserving nil for an
// absent map (absent means unconstrained).
func unmarshalSpecMap(raw map[string]json.RawMessage) (map[string]ValueSpec, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[string]ValueSpec, len(raw))
	for k, v := range raw {
		spec, err := UnmarshalValueSpec(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = spec
	}
	return out, nil
}

// CanonicalMap converts the mutation verifier to the plain map form
// consumed by ir.MarshalCanonical.
func (m Mutation) CanonicalMap() map[string]any {
	out := map[string]any{
		"action":    m.Action,
		"tablename": m.TableName,
	}
	if m.Values != nil {
		out["values"] = canonicalSpecMap(m.Values)
	}
	if m.Where != nil {
		out["where"] = canonicalSpecMap(m.Where)
	}
	return out
}

func canonicalSpecMap(specs map[string]ValueSpec) map[string]any {
	out := make(map[string]any, len(specs))
	for k, s := range specs {
		out[k] = CanonicalValue(s)
	}
	return out
}

// Spec is the full expectation for one validation run.
//
// The scalar fields track JSON key presence: a nil field means the key
// was absent and the corresponding check is skipped, while an explicit
// null decodes to Literal{ir.Null{}} and is checked.
type Spec struct {
	Type      string
	Mutations []Mutation

	ReturnValue ValueSpec
	FinalURL    ValueSpec
	AgentError  ValueSpec
}

// Parse decodes a verifier spec from JSON, accepting both the canonical
// state-envelope shape and the legacy bare-mutations shape.
func Parse(data []byte) (*Spec, error) {
	var raw struct {
		Type  string `json:"type"`
		State *struct {
			Mutations []Mutation `json:"mutations"`
		} `json:"state"`
		Mutations []Mutation `json:"mutations"`

		ReturnValue json.RawMessage `json:"return_value"`
		FinalURL    json.RawMessage `json:"final_url"`
		AgentError  json.RawMessage `json:"agent_error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse verifier spec: %w", err)
	}

	spec := &Spec{Type: raw.Type}

	if raw.State != nil {
		spec.Mutations = raw.State.Mutations
	} else {
		spec.Mutations = raw.Mutations
	}

	var err error
	if spec.ReturnValue, err = optionalSpec(raw.ReturnValue); err != nil {
		return nil, fmt.Errorf("return_value: %w", err)
	}
	if spec.FinalURL, err = optionalSpec(raw.FinalURL); err != nil {
		return nil, fmt.Errorf("final_url: %w", err)
	}
	if spec.AgentError, err = optionalSpec(raw.AgentError); err != nil {
		return nil, fmt.Errorf("agent_error: %w", err)
	}

	return spec, nil
}

// optionalSpec decodes a scalar expectation, distinguishing an absent key
// (nil RawMessage) from an explicit null (checked as Literal null).
func optionalSpec(raw json.RawMessage) (ValueSpec, error) {
	if raw == nil {
		return nil, nil
	}
	return UnmarshalValueSpec(raw)
}

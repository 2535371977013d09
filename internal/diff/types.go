package diff

import (
	"encoding/json"
	"fmt"

	"github.com/statematch/statematch/internal/ir"
)

// Method identifies the kind of mutation a record describes.
type Method string

// Recognized mutation methods.
const (
	MethodInsert Method = "insert"
	MethodUpdate Method = "update"
	MethodDelete Method = "delete"
)

// Valid reports whether the method is one of the recognized kinds.
func (m Method) Valid() bool {
	switch m {
	case MethodInsert, MethodUpdate, MethodDelete:
		return true
	}
	return false
}

// Mutation is one observed database change.
//
// The populated maps are fully determined by Method:
//   - insert: Record only
//   - update: Where and Record
//   - delete: Where only
//
// UnmarshalJSON enforces the invariant; the parser produces records that
// satisfy it by construction.
type Mutation struct {
	Table  string    `json:"table"`
	Method Method    `json:"method"`
	Where  ir.Object `json:"where,omitempty"`
	Record ir.Object `json:"record,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler, rejecting records whose
// fields do not match their method.
func (m *Mutation) UnmarshalJSON(data []byte) error {
	type alias Mutation
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Mutation(raw)

	if !m.Method.Valid() {
		return fmt.Errorf("unknown mutation method %q", m.Method)
	}

	switch m.Method {
	case MethodInsert:
		if m.Record == nil {
			return fmt.Errorf("insert mutation on %q missing record", m.Table)
		}
		if m.Where != nil {
			return fmt.Errorf("insert mutation on %q must not carry where", m.Table)
		}
	case MethodUpdate:
		if m.Record == nil {
			return fmt.Errorf("update mutation on %q missing record", m.Table)
		}
		if m.Where == nil {
			return fmt.Errorf("update mutation on %q missing where", m.Table)
		}
	case MethodDelete:
		if m.Where == nil {
			return fmt.Errorf("delete mutation on %q missing where", m.Table)
		}
		if m.Record != nil {
			return fmt.Errorf("delete mutation on %q must not carry record", m.Table)
		}
	}

	return nil
}

// CanonicalMap converts the mutation to the plain map form consumed by
// ir.MarshalCanonical. Maps absent for the method are omitted.
func (m Mutation) CanonicalMap() map[string]any {
	out := map[string]any{
		"table":  m.Table,
		"method": string(m.Method),
	}
	if m.Where != nil {
		out["where"] = m.Where
	}
	if m.Record != nil {
		out["record"] = m.Record
	}
	return out
}

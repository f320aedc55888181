// Package element defines the decoded SPDX element record, the codec that
// validates untrusted JSON into it, and the reference walker that rewrites
// every identifier-valued field under a caller-supplied transform.
package element

import "encoding/json"

// Kinds with kind-specific identifier fields. Any other kind is processed
// with only the kind-independent and generic list fields, so unknown kinds
// pass through cleanly.
const (
	KindRelationship = "relationship"
	KindAnnotation   = "annotation"
	KindSpdxDocument = "spdxDocument"
)

// Element is one decoded element record. An element has exactly one kind;
// Kind holds the single key of the wire-format "type" object and Props its
// property bag. Creator and Profile are normalized to lists on decode even
// when the stored form is scalar.
//
// Elements are never mutated in place by the rest of the module: Walk and
// the document operations always produce new values.
type Element struct {
	ID          string
	Creator     []string
	Created     string
	SpecVersion string
	Profile     []string
	DataLicense string
	Kind        string
	Props       map[string]any
}

// Clone returns a deep copy of the element. Props values are copied through
// one level of maps and slices, which covers everything the codec produces.
func (e *Element) Clone() *Element {
	out := *e
	out.Creator = append([]string(nil), e.Creator...)
	out.Profile = append([]string(nil), e.Profile...)
	if e.Props != nil {
		out.Props = make(map[string]any, len(e.Props))
		for k, v := range e.Props {
			out.Props[k] = cloneValue(v)
		}
	}
	return &out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON emits the wire form with stable field order.
func (e *Element) MarshalJSON() ([]byte, error) {
	return defaultCodec.Encode(e)
}

// UnmarshalJSON decodes and validates the wire form.
func (e *Element) UnmarshalJSON(data []byte) error {
	decoded, err := defaultCodec.Decode(data)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

var _ json.Marshaler = (*Element)(nil)
var _ json.Unmarshaler = (*Element)(nil)

var defaultCodec = NewCodec()

package element

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaError reports a structural violation in an element record. Path
// locates the offending field in the source JSON.
type SchemaError struct {
	Path string
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema violation: " + e.Msg
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Msg)
}

func schemaErrorf(path, format string, args ...any) error {
	return &SchemaError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Codec decodes untrusted JSON into validated Element records and encodes
// them back with stable field order. Decoding is strict: unknown top-level
// fields, a missing id, or anything other than exactly one kind under
// "type" fail with a *SchemaError.
type Codec struct{}

// NewCodec returns a Codec.
func NewCodec() *Codec { return &Codec{} }

// wireElement is the on-disk shape. Creator and Profile are RawMessage
// because the stored form may be a scalar or a list.
type wireElement struct {
	ID          string                    `json:"id"`
	Creator     json.RawMessage           `json:"creator,omitempty"`
	Created     string                    `json:"created,omitempty"`
	SpecVersion string                    `json:"specVersion,omitempty"`
	Profile     json.RawMessage           `json:"profile,omitempty"`
	DataLicense string                    `json:"dataLicense,omitempty"`
	Type        map[string]map[string]any `json:"type,omitempty"`
}

// Decode validates raw JSON and returns the element it describes.
func (c *Codec) Decode(data []byte) (*Element, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w wireElement
	if err := dec.Decode(&w); err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}
	if w.ID == "" {
		return nil, schemaErrorf("id", "required and must be a non-empty string")
	}
	if len(w.Type) != 1 {
		return nil, schemaErrorf("type", "must contain exactly one kind, got %d", len(w.Type))
	}
	el := &Element{
		ID:          w.ID,
		Created:     w.Created,
		SpecVersion: w.SpecVersion,
		DataLicense: w.DataLicense,
	}
	var err error
	if el.Creator, err = stringList(w.Creator, "creator"); err != nil {
		return nil, err
	}
	if el.Profile, err = stringList(w.Profile, "profile"); err != nil {
		return nil, err
	}
	for kind, props := range w.Type {
		el.Kind = kind
		if props == nil {
			props = map[string]any{}
		}
		el.Props = props
	}
	return el, nil
}

// Encode emits the element in wire form. Field order is fixed: id, creator,
// created, specVersion, profile, dataLicense, type. Scalar-or-list fields
// are always emitted as lists.
func (c *Codec) Encode(el *Element) ([]byte, error) {
	if el.ID == "" {
		return nil, schemaErrorf("id", "required and must be a non-empty string")
	}
	if el.Kind == "" {
		return nil, schemaErrorf("type", "element kind is required")
	}
	w := wireElement{
		ID:          el.ID,
		Created:     el.Created,
		SpecVersion: el.SpecVersion,
		DataLicense: el.DataLicense,
		Type:        map[string]map[string]any{el.Kind: el.Props},
	}
	if el.Props == nil {
		w.Type[el.Kind] = map[string]any{}
	}
	var err error
	if len(el.Creator) > 0 {
		if w.Creator, err = json.Marshal(el.Creator); err != nil {
			return nil, err
		}
	}
	if len(el.Profile) > 0 {
		if w.Profile, err = json.Marshal(el.Profile); err != nil {
			return nil, err
		}
	}
	return json.Marshal(w)
}

// stringList accepts a JSON string or array of strings and normalizes to a
// Go string slice. nil input yields nil.
func stringList(raw json.RawMessage, path string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, schemaErrorf(path, "must be a string or a list of strings")
	}
	return list, nil
}

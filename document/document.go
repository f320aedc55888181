// Package document assembles, merges, splits, and checks SPDX transfer-unit
// documents: self-contained files carrying a reference-closed set of
// elements with identifiers compressed against the document's own namespace
// and prefix context.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spdxkit/spdxtu/element"
)

// Document is one serializable transfer unit. Struct field order fixes the
// output field order: namespace first, then prefixes, then the default
// properties, then the element bodies. Prefix maps marshal with sorted keys,
// so identical inputs produce byte-identical output.
type Document struct {
	Namespace      string             `json:"namespace"`
	Prefixes       map[string]string  `json:"prefixes,omitempty"`
	Creator        []string           `json:"creator,omitempty"`
	Created        string             `json:"created,omitempty"`
	SpecVersion    string             `json:"specVersion,omitempty"`
	Profile        []string           `json:"profile,omitempty"`
	DataLicense    string             `json:"dataLicense,omitempty"`
	SpdxDocumentID string             `json:"spdxDocumentId,omitempty"`
	Elements       []*element.Element `json:"element"`
}

// Parse decodes a serialized transfer unit. Element bodies are validated by
// the element codec; a document without a namespace is rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Namespace == "" {
		return nil, fmt.Errorf("%w: document has no namespace", ErrConfiguration)
	}
	return &doc, nil
}

// ParseFile reads and parses a transfer-unit file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(data)
}

// WriteFile marshals the document pretty-printed and writes it in one
// operation, creating parent directories as needed. Marshalling happens
// before the file is touched, so a failing document never leaves a partial
// file behind.
func (d *Document) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// ElementIDs returns the ids of the contained elements in document order.
func (d *Document) ElementIDs() []string {
	ids := make([]string, len(d.Elements))
	for i, el := range d.Elements {
		ids[i] = el.ID
	}
	return ids
}

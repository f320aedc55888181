package document

import (
	"log/slog"
	"strings"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
)

// Splitter breaks a transfer-unit document back into standalone elements:
// the inverse of assembly. Each element gets the document's default
// properties filled in where it omitted them, and every identifier expanded
// to absolute IRI form against the document's own namespace and prefixes.
type Splitter struct {
	logger *slog.Logger
}

// NewSplitter returns a Splitter.
func NewSplitter(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{logger: logger}
}

// Split returns the document's elements in standalone form, in document
// order. References to ids the document does not contain produce advisory
// warnings but still expand.
func (s *Splitter) Split(doc *Document) ([]*element.Element, error) {
	ctx, err := iri.NewContext(doc.Namespace, doc.Prefixes, s.logger)
	if err != nil {
		return nil, err
	}
	ctx.SetKnown(doc.ElementIDs())

	out := make([]*element.Element, len(doc.Elements))
	for i, el := range doc.Elements {
		filled := fillDefaults(el, doc)
		expanded, _ := element.Walk(filled, ctx.Expand)
		out[i] = expanded
	}
	s.logger.Info("document split", "namespace", doc.Namespace, "elements", len(out))
	return out, nil
}

// fillDefaults copies document default properties into an element that
// omitted them.
func fillDefaults(el *element.Element, doc *Document) *element.Element {
	out := el.Clone()
	if len(out.Creator) == 0 {
		out.Creator = append([]string(nil), doc.Creator...)
	}
	if out.Created == "" {
		out.Created = doc.Created
	}
	if out.SpecVersion == "" {
		out.SpecVersion = doc.SpecVersion
	}
	if len(out.Profile) == 0 {
		out.Profile = append([]string(nil), doc.Profile...)
	}
	if out.DataLicense == "" {
		out.DataLicense = doc.DataLicense
	}
	return out
}

// ElementFilename derives a file name for a standalone element from its id:
// the part after the last '#', ':', or '/', sanitized to filesystem-safe
// characters, with a .json extension.
func ElementFilename(id string) string {
	local := strings.TrimRight(id, "#:/")
	if i := strings.LastIndexAny(local, "#:/"); i >= 0 {
		local = local[i+1:]
	}
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		b.WriteString("element")
	}
	return b.String() + ".json"
}

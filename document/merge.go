package document

import (
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
	"github.com/spdxkit/spdxtu/store"
)

// Merger turns spdxDocument elements into standalone payload documents: the
// element bodies the spdxDocument lists, wrapped with its namespace,
// prefixes, and default properties.
type Merger struct {
	pool   *store.Store
	logger *slog.Logger
}

// NewMerger returns a Merger over the given pool.
func NewMerger(pool *store.Store, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{pool: pool, logger: logger}
}

// MergeResult is one merged payload in both identifier forms.
type MergeResult struct {
	// DocID is the spdxDocument element that produced this payload.
	DocID string

	// Name is the payload file stem, derived from the spdxDocument's
	// downloadLocation when present.
	Name string

	// Expanded carries absolute-IRI identifiers throughout.
	Expanded *Document

	// Compressed carries identifiers compressed against the payload's own
	// namespace and prefixes, with element properties equal to the payload
	// defaults stripped.
	Compressed *Document
}

// Documents returns the ids of every spdxDocument element in pool order.
func (m *Merger) Documents() []string {
	var ids []string
	for _, id := range m.pool.IDs() {
		el, err := m.pool.Get(id)
		if err == nil && el.Kind == element.KindSpdxDocument {
			ids = append(ids, id)
		}
	}
	return ids
}

// Merge builds payloads for the named spdxDocument, or for every
// spdxDocument in the pool when docID is empty. The second return value
// lists pool elements that ended up in no payload.
func (m *Merger) Merge(docID string) ([]*MergeResult, []string, error) {
	docs := []string{docID}
	if docID == "" {
		docs = m.Documents()
	}

	used := make(map[string]struct{})
	results := make([]*MergeResult, 0, len(docs))
	for n, id := range docs {
		res, err := m.mergeOne(id, n+1, used)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
	}

	var unserialized []string
	for _, id := range m.pool.IDs() {
		if _, ok := used[id]; !ok {
			unserialized = append(unserialized, id)
		}
	}
	return results, unserialized, nil
}

func (m *Merger) mergeOne(docID string, n int, used map[string]struct{}) (*MergeResult, error) {
	docEl, err := m.pool.Get(docID)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", docID, ErrUnknownReference)
	}
	if docEl.Kind != element.KindSpdxDocument {
		return nil, fmt.Errorf("%w: %q is a %s, not a %s", ErrConfiguration, docID, docEl.Kind, element.KindSpdxDocument)
	}

	namespace, _ := docEl.Props["namespace"].(string)
	if namespace == "" {
		return nil, fmt.Errorf("%w: %q has no namespace", ErrConfiguration, docID)
	}
	prefixes, err := prefixTable(docEl.Props["prefixes"])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfiguration, docID, err)
	}
	listed := stringValues(docEl.Props["element"])

	expanded := &Document{
		Namespace:   namespace,
		Prefixes:    prefixes,
		Creator:     docEl.Creator,
		Created:     docEl.Created,
		SpecVersion: docEl.SpecVersion,
		Profile:     docEl.Profile,
		DataLicense: docEl.DataLicense,
		Elements:    []*element.Element{},
	}
	for _, id := range listed {
		el, err := m.pool.Get(id)
		if err != nil {
			m.logger.Warn("listed element not in pool, skipping", "document", docID, "id", id)
			continue
		}
		used[id] = struct{}{}
		expanded.Elements = append(expanded.Elements, el.Clone())
	}
	if slices.Contains(listed, docID) {
		expanded.SpdxDocumentID = docID
	}

	ctx, err := iri.NewContext(namespace, prefixes, m.logger)
	if err != nil {
		return nil, err
	}
	compressed, err := compressPayload(expanded, ctx)
	if err != nil {
		return nil, err
	}

	name := payloadName(docEl, n)
	m.logger.Info("document merged",
		"id", docID, "elements", len(expanded.Elements), "payload", name)
	return &MergeResult{
		DocID:      docID,
		Name:       name,
		Expanded:   expanded,
		Compressed: compressed,
	}, nil
}

// compressPayload rewrites every identifier of the payload against ctx.
// Element properties equal to the payload defaults are stripped before
// compression, so payload-level values stand in for them on read.
func compressPayload(payload *Document, ctx *iri.Context) (*Document, error) {
	out := *payload
	out.Elements = make([]*element.Element, len(payload.Elements))
	for i, el := range payload.Elements {
		stripped := stripDefaults(el, payload)
		compressed, _ := element.Walk(stripped, ctx.Compress)
		out.Elements[i] = compressed
	}
	out.Creator = make([]string, len(payload.Creator))
	for i, creator := range payload.Creator {
		out.Creator[i] = ctx.Compress(creator)
	}
	if out.SpdxDocumentID != "" {
		out.SpdxDocumentID = ctx.Compress(out.SpdxDocumentID)
	}
	return &out, nil
}

// stripDefaults drops element default properties that match the document's.
func stripDefaults(el *element.Element, doc *Document) *element.Element {
	out := el.Clone()
	if slices.Equal(out.Creator, doc.Creator) {
		out.Creator = nil
	}
	if out.Created == doc.Created {
		out.Created = ""
	}
	if out.SpecVersion == doc.SpecVersion {
		out.SpecVersion = ""
	}
	if slices.Equal(out.Profile, doc.Profile) {
		out.Profile = nil
	}
	if out.DataLicense == doc.DataLicense {
		out.DataLicense = ""
	}
	return out
}

// payloadName derives a payload file stem from the spdxDocument's
// downloadLocation, falling back to a numbered name.
func payloadName(docEl *element.Element, n int) string {
	if loc, ok := docEl.Props["downloadLocation"].(string); ok && loc != "" {
		base := path.Base(loc)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return fmt.Sprintf("payload%d", n)
}

// prefixTable converts a decoded prefixes property to a string table.
func prefixTable(raw any) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("prefixes must be an object")
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("prefix %q must be a string", k)
		}
		out[k] = s
	}
	return out, nil
}

// stringValues extracts the string entries of a decoded list property.
func stringValues(raw any) []string {
	switch vals := raw.(type) {
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), vals...)
	case string:
		return []string{vals}
	default:
		return nil
	}
}

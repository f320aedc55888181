package document

import (
	"log/slog"
	"time"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
)

// Report collects the findings of checking one transfer-unit document.
// Dangling, Duplicates, and Late are defects; Uncovered, Uncompressed, and
// Roots are advisory.
type Report struct {
	// Dangling lists namespace-relative references to ids the document does
	// not contain.
	Dangling []string

	// Duplicates lists element ids appearing more than once.
	Duplicates []string

	// Late lists elements whose created timestamp is after the document's.
	Late []string

	// Uncovered lists absolute-IRI references matching neither the
	// namespace nor any declared prefix.
	Uncovered []string

	// Uncompressed lists identifiers left in absolute form although the
	// namespace or a prefix covers them.
	Uncompressed []string

	// Roots lists contained elements never referenced by another element.
	Roots []string
}

// OK reports whether the document has no defects.
func (r *Report) OK() bool {
	return len(r.Dangling) == 0 && len(r.Duplicates) == 0 && len(r.Late) == 0
}

// Check verifies the internal consistency of a transfer unit.
func Check(doc *Document, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, err := iri.NewContext(doc.Namespace, doc.Prefixes, logger)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	contained := make(map[string]struct{}, len(doc.Elements))
	for _, el := range doc.Elements {
		if _, dup := contained[el.ID]; dup {
			report.Duplicates = append(report.Duplicates, el.ID)
			continue
		}
		contained[el.ID] = struct{}{}
	}

	docCreated, docTimeOK := parseTimestamp(doc.Created)
	referenced := make(map[string]struct{})
	seenRef := make(map[string]struct{})

	for _, el := range doc.Elements {
		if docTimeOK && el.Created != "" {
			if created, ok := parseTimestamp(el.Created); ok && created.After(docCreated) {
				report.Late = append(report.Late, el.ID)
			}
		}
		for _, ref := range element.References(el) {
			if ref != el.ID {
				referenced[ref] = struct{}{}
			}
			if _, done := seenRef[ref]; done {
				continue
			}
			seenRef[ref] = struct{}{}
			classifyRef(ctx, ref, contained, report)
		}
	}

	for _, el := range doc.Elements {
		if _, ok := referenced[el.ID]; !ok {
			report.Roots = append(report.Roots, el.ID)
		}
	}
	return report, nil
}

// classifyRef sorts one distinct identifier into the report buckets.
func classifyRef(ctx *iri.Context, ref string, contained map[string]struct{}, report *Report) {
	if compressed := ctx.Compress(ref); compressed != ref {
		// Absolute form the context covers; producers should have
		// compressed it.
		report.Uncompressed = append(report.Uncompressed, ref)
		return
	}
	if iri.HasScheme(ref) {
		if expanded := ctx.Expand(ref); expanded != ref {
			// Prefixed shorthand pointing at another document.
			return
		}
		// Absolute IRI outside the namespace and every prefix.
		report.Uncovered = append(report.Uncovered, ref)
		return
	}
	// Namespace-relative local name; must be contained.
	if _, ok := contained[ref]; !ok {
		report.Dangling = append(report.Dangling, ref)
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

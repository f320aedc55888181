package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
)

func checkDoc() *Document {
	return &Document{
		Namespace: testNS,
		Prefixes:  map[string]string{"ext": "https://example.org/shared#"},
		Created:   "2024-05-01T12:00:00Z",
		Elements: []*element.Element{
			{
				ID:   "root",
				Kind: element.KindRelationship,
				Props: map[string]any{
					"from": "root",
					"to":   []any{"leaf"},
				},
			},
			{
				ID:    "leaf",
				Kind:  "package",
				Props: map[string]any{"name": "leaf-pkg"},
			},
		},
	}
}

func TestCheckCleanDocument(t *testing.T) {
	report, err := Check(checkDoc(), nil)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Dangling)
	assert.Equal(t, []string{"root"}, report.Roots, "leaf is referenced, root is not")
}

func TestCheckDanglingReference(t *testing.T) {
	doc := checkDoc()
	doc.Elements[0].Props["to"] = []any{"leaf", "ghost"}

	report, err := Check(doc, nil)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"ghost"}, report.Dangling)
}

func TestCheckPrefixedReferenceIsExternal(t *testing.T) {
	doc := checkDoc()
	doc.Elements[0].Props["to"] = []any{"leaf", "ext:other-doc-pkg"}

	report, err := Check(doc, nil)
	require.NoError(t, err)
	assert.True(t, report.OK(), "prefixed references point at other documents")
	assert.Empty(t, report.Dangling)
}

func TestCheckDuplicateIDs(t *testing.T) {
	doc := checkDoc()
	doc.Elements = append(doc.Elements, &element.Element{
		ID:    "leaf",
		Kind:  "package",
		Props: map[string]any{},
	})

	report, err := Check(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf"}, report.Duplicates)
}

func TestCheckLateElement(t *testing.T) {
	doc := checkDoc()
	doc.Elements[1].Created = "2024-06-01T00:00:00Z" // after the document

	report, err := Check(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf"}, report.Late)
	assert.False(t, report.OK())
}

func TestCheckUncoveredAndUncompressed(t *testing.T) {
	doc := checkDoc()
	doc.Elements[0].Props["to"] = []any{
		"leaf",
		"https://other.org/x#y", // no prefix covers this
		testNS + "leaf",         // should have been compressed
	}

	report, err := Check(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://other.org/x#y"}, report.Uncovered)
	assert.Equal(t, []string{testNS + "leaf"}, report.Uncompressed)
	assert.True(t, report.OK(), "coverage findings are advisory")
}

func TestCheckAmbiguousPrefixes(t *testing.T) {
	doc := checkDoc()
	doc.Prefixes = map[string]string{
		"a": "https://example.org/shared#",
		"b": "https://example.org/shared#deep/",
	}
	_, err := Check(doc, nil)
	require.ErrorIs(t, err, iri.ErrAmbiguousPrefix)
}

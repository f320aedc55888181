package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/store"
)

func mergePool(t *testing.T) *store.Store {
	t.Helper()
	pool := store.New()
	put := func(el *element.Element) {
		require.NoError(t, pool.Put(el))
	}
	put(&element.Element{
		ID:          testNS + "tu",
		Creator:     []string{testNS + "alice"},
		Created:     "2024-05-01T12:00:00Z",
		SpecVersion: "3.0",
		Profile:     []string{"core"},
		DataLicense: "CC0-1.0",
		Kind:        element.KindSpdxDocument,
		Props: map[string]any{
			"namespace":        testNS,
			"prefixes":         map[string]any{"ext": "https://example.org/shared#"},
			"element":          []any{testNS + "tu", testNS + "pkg"},
			"downloadLocation": "https://example.org/dist/doc1.spdx.json",
		},
	})
	put(&element.Element{
		ID:          testNS + "pkg",
		Creator:     []string{testNS + "alice"},
		Created:     "2024-05-01T12:00:00Z",
		SpecVersion: "3.0",
		Kind:        "package",
		Props:       map[string]any{"name": "pkg"},
	})
	put(&element.Element{
		ID:    testNS + "stray",
		Kind:  "package",
		Props: map[string]any{"name": "stray"},
	})
	return pool
}

func TestMergeAllDocuments(t *testing.T) {
	m := NewMerger(mergePool(t), nil)

	results, unserialized, err := m.Merge("")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{testNS + "stray"}, unserialized)

	res := results[0]
	assert.Equal(t, testNS+"tu", res.DocID)
	assert.Equal(t, "doc1.spdx", res.Name)
}

func TestMergeExpandedPayload(t *testing.T) {
	m := NewMerger(mergePool(t), nil)

	results, _, err := m.Merge(testNS + "tu")
	require.NoError(t, err)
	res := results[0]

	assert.Equal(t, testNS, res.Expanded.Namespace)
	assert.Equal(t, []string{testNS + "tu", testNS + "pkg"}, res.Expanded.ElementIDs())
	assert.Equal(t, testNS+"tu", res.Expanded.SpdxDocumentID,
		"self-listed document records its own id")
	assert.Equal(t, []string{testNS + "alice"}, res.Expanded.Creator)
}

func TestMergeCompressedPayload(t *testing.T) {
	m := NewMerger(mergePool(t), nil)

	results, _, err := m.Merge(testNS + "tu")
	require.NoError(t, err)
	res := results[0]

	assert.Equal(t, []string{"tu", "pkg"}, res.Compressed.ElementIDs())
	assert.Equal(t, "tu", res.Compressed.SpdxDocumentID)
	assert.Equal(t, []string{"alice"}, res.Compressed.Creator)

	// pkg's creator/created/specVersion match the payload defaults and are
	// stripped from the element body.
	pkg := res.Compressed.Elements[1]
	assert.Empty(t, pkg.Creator)
	assert.Empty(t, pkg.Created)
	assert.Empty(t, pkg.SpecVersion)
}

func TestMergeUnknownDocument(t *testing.T) {
	m := NewMerger(mergePool(t), nil)
	_, _, err := m.Merge(testNS + "nope")
	require.ErrorIs(t, err, ErrUnknownReference)
}

func TestMergeNonDocumentElement(t *testing.T) {
	m := NewMerger(mergePool(t), nil)
	_, _, err := m.Merge(testNS + "pkg")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestMergeDocumentWithoutNamespace(t *testing.T) {
	pool := store.New()
	require.NoError(t, pool.Put(&element.Element{
		ID:    "d",
		Kind:  element.KindSpdxDocument,
		Props: map[string]any{"element": []any{}},
	}))
	_, _, err := NewMerger(pool, nil).Merge("d")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPayloadNameFallback(t *testing.T) {
	el := &element.Element{ID: "d", Kind: element.KindSpdxDocument, Props: map[string]any{}}
	assert.Equal(t, "payload3", payloadName(el, 3))
}

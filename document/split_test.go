package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdxkit/spdxtu/element"
)

func splitDoc() *Document {
	return &Document{
		Namespace:   testNS,
		Prefixes:    map[string]string{"ext": "https://example.org/shared#"},
		Creator:     []string{"alice"},
		Created:     "2024-05-01T12:00:00Z",
		SpecVersion: "3.0",
		DataLicense: "CC0-1.0",
		Elements: []*element.Element{
			{
				ID:   "root",
				Kind: element.KindRelationship,
				Props: map[string]any{
					"from": "root",
					"to":   []any{"leaf", "ext:shared-pkg"},
				},
			},
			{
				ID:      "leaf",
				Creator: []string{"bob"},
				Kind:    "package",
				Props:   map[string]any{"name": "leaf-pkg"},
			},
		},
	}
}

func TestSplitExpandsIdentifiers(t *testing.T) {
	els, err := NewSplitter(nil).Split(splitDoc())
	require.NoError(t, err)
	require.Len(t, els, 2)

	root := els[0]
	assert.Equal(t, testNS+"root", root.ID)
	assert.Equal(t, testNS+"root", root.Props["from"])
	assert.Equal(t, []any{testNS + "leaf", "https://example.org/shared#shared-pkg"}, root.Props["to"])
}

func TestSplitFillsDefaults(t *testing.T) {
	els, err := NewSplitter(nil).Split(splitDoc())
	require.NoError(t, err)

	root, leaf := els[0], els[1]
	assert.Equal(t, []string{testNS + "alice"}, root.Creator, "document creator filled in and expanded")
	assert.Equal(t, "2024-05-01T12:00:00Z", root.Created)
	assert.Equal(t, "3.0", root.SpecVersion)
	assert.Equal(t, "CC0-1.0", root.DataLicense)

	assert.Equal(t, []string{testNS + "bob"}, leaf.Creator, "element's own creator wins over the default")
}

func TestSplitDoesNotMutateDocument(t *testing.T) {
	doc := splitDoc()
	_, err := NewSplitter(nil).Split(doc)
	require.NoError(t, err)
	assert.Equal(t, "root", doc.Elements[0].ID)
	assert.Empty(t, doc.Elements[0].Creator)
}

func TestElementFilename(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{testNS + "root", "root.json"},
		{"ext:shared-pkg", "shared-pkg.json"},
		{"plain", "plain.json"},
		{"weird id/with spaces#x y", "x_y.json"},
		{"#", "element.json"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ElementFilename(tc.id), tc.id)
	}
}

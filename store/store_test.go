package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdxkit/spdxtu/element"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"id":"https://example.org/doc1#a","type":{"package":{}}}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"id":"https://example.org/doc1#b","type":{"file":{}}}`)
	// Config subdirectory must not be picked up by the default pattern.
	writeFile(t, filepath.Join(dir, "Config", "tu.json"), `{"namespace":"x"}`)

	s, err := Load(dir, "", element.NewCodec(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	el, err := s.Get("https://example.org/doc1#a")
	require.NoError(t, err)
	assert.Equal(t, "package", el.Kind)
}

func TestLoadRecursivePattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "nested", "a.json"), `{"id":"a","type":{"package":{}}}`)

	s, err := Load(dir, "**/*.json", element.NewCodec(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestLoadBadElementFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"type":{"package":{}}}`)

	_, err := Load(dir, "", element.NewCodec(), nil)
	require.Error(t, err)
	var schemaErr *element.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestLoadDuplicateIDFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"id":"dup","type":{"package":{}}}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"id":"dup","type":{"file":{}}}`)

	_, err := Load(dir, "", element.NewCodec(), nil)
	require.ErrorContains(t, err, "duplicate element id")
}

func TestGetNotFound(t *testing.T) {
	s := New()
	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIDsPreserveLoadOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Put(&element.Element{ID: "b", Kind: "package"}))
	require.NoError(t, s.Put(&element.Element{ID: "a", Kind: "package"}))
	assert.Equal(t, []string{"b", "a"}, s.IDs())
}

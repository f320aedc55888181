package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"namespace": "https://example.org/doc1#",
		"prefixes": {"ext": "https://example.org/shared#"},
		"creationInfo": "https://example.org/doc1#creation",
		"include": ["https://example.org/doc1#root"],
		"exclude": [],
		"filename": "doc1.json"
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/doc1#", cfg.Namespace)
	assert.Equal(t, "doc1.json", cfg.Filename)
	assert.Len(t, cfg.Include, 1)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"namespace": "x", "bogus": true}`), 0o644))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Namespace:    "https://example.org/doc1#",
			CreationInfo: "ci",
			Include:      []string{"root"},
			Filename:     "out.json",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing namespace", func(c *Config) { c.Namespace = "" }},
		{"missing creationInfo", func(c *Config) { c.CreationInfo = "" }},
		{"empty include", func(c *Config) { c.Include = nil }},
		{"missing filename", func(c *Config) { c.Filename = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}

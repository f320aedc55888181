package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Config defines one transfer-unit assembly: which elements seed the
// closure, the namespace and prefixes the output is compressed against,
// and where the result goes.
type Config struct {
	// Namespace is the document's base IRI.
	Namespace string `json:"namespace"`

	// Prefixes names additional IRI prefixes usable in compressed form.
	Prefixes map[string]string `json:"prefixes,omitempty"`

	// CreationInfo identifies the element whose creator, created,
	// specVersion, profile, and dataLicense become the document defaults.
	// It is not automatically included in the document.
	CreationInfo string `json:"creationInfo"`

	// Include seeds the reference closure. Every element reachable from
	// these ids is pulled into the document.
	Include []string `json:"include"`

	// Exclude removes specific ids from the assembled document after the
	// closure is computed. Elements reachable only through an excluded
	// element still appear if another path reaches them.
	Exclude []string `json:"exclude,omitempty"`

	// Filename is the output file name, relative to the output directory.
	Filename string `json:"filename"`
}

// LoadConfig reads and validates an assembly configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfiguration, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required field is present.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrConfiguration)
	}
	if c.CreationInfo == "" {
		return fmt.Errorf("%w: creationInfo is required", ErrConfiguration)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("%w: include must list at least one element", ErrConfiguration)
	}
	if c.Filename == "" {
		return fmt.Errorf("%w: filename is required", ErrConfiguration)
	}
	return nil
}

// Package config provides configuration loading and management for spdxtu.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete spdxtu configuration.
type Config struct {
	Dirs  DirsConfig  `yaml:"dirs"`
	Watch WatchConfig `yaml:"watch"`
}

// DirsConfig locates the element pool, the assembly configurations, and the
// output directory.
type DirsConfig struct {
	// Elements is the directory holding individual element files.
	Elements string `yaml:"elements"`
	// Configs is the directory holding assembly configuration files.
	Configs string `yaml:"configs"`
	// Out is the directory output files are written to.
	Out string `yaml:"out"`
	// Pattern is the glob used to discover element files under Elements.
	// Doublestar patterns are supported ("**/*.json" recurses).
	Pattern string `yaml:"pattern"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for further changes before reassembling.
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with the conventional directory layout.
func DefaultConfig() *Config {
	return &Config{
		Dirs: DirsConfig{
			Elements: "Elements",
			Configs:  filepath.Join("Elements", "Config"),
			Out:      "Out",
			Pattern:  "*.json",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Merge overlays non-zero fields from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Dirs.Elements != "" {
		c.Dirs.Elements = other.Dirs.Elements
	}
	if other.Dirs.Configs != "" {
		c.Dirs.Configs = other.Dirs.Configs
	}
	if other.Dirs.Out != "" {
		c.Dirs.Out = other.Dirs.Out
	}
	if other.Dirs.Pattern != "" {
		c.Dirs.Pattern = other.Dirs.Pattern
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Dirs.Elements == "" {
		return fmt.Errorf("dirs.elements must not be empty")
	}
	if c.Dirs.Out == "" {
		return fmt.Errorf("dirs.out must not be empty")
	}
	if !doublestar.ValidatePattern(c.Dirs.Pattern) {
		return fmt.Errorf("dirs.pattern %q is not a valid glob", c.Dirs.Pattern)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile reads a Config from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &config, nil
}

// SaveToFile writes the Config to a YAML file, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Package store loads and indexes the pool of decoded elements that
// document assembly draws from.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/spdxkit/spdxtu/element"
)

// DefaultPattern matches element files directly inside the pool directory.
// Use "**/*.json" to include subdirectories.
const DefaultPattern = "*.json"

// Store is an in-memory element pool keyed by element id. Elements are keyed
// exactly as decoded; element files carry absolute-IRI ids, so the canonical
// key form is the absolute IRI.
type Store struct {
	elements map[string]*element.Element
	order    []string
}

// New returns an empty Store.
func New() *Store {
	return &Store{elements: make(map[string]*element.Element)}
}

// Put adds an element. Duplicate ids are rejected.
func (s *Store) Put(el *element.Element) error {
	if _, exists := s.elements[el.ID]; exists {
		return fmt.Errorf("duplicate element id %q", el.ID)
	}
	s.elements[el.ID] = el
	s.order = append(s.order, el.ID)
	return nil
}

// Get returns the element with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*element.Element, error) {
	el, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return el, nil
}

// Len reports the number of elements in the pool.
func (s *Store) Len() int { return len(s.order) }

// IDs returns element ids in load order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// Load reads every element file under dir matching pattern (a doublestar
// glob, DefaultPattern when empty) and decodes each through codec. One bad
// element fails the whole load; duplicate ids do too. Files are loaded in
// sorted path order so the pool order is deterministic.
func Load(dir, pattern string, codec *element.Codec, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	s := New()
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		el, err := codec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if err := s.Put(el); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	logger.Info("elements loaded", "count", s.Len(), "dir", dir)
	return s, nil
}

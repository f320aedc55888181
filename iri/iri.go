// Package iri converts element identifiers between absolute IRI form and
// namespace-relative shorthand under a document's namespace and prefix
// context.
//
// An identifier is either an absolute IRI ("https://example.org/doc1#foo"),
// a prefixed shorthand ("ext:bar" where "ext" names an entry in the prefix
// table), or a bare namespace-relative local name ("foo"). Expand rewrites
// shorthand to absolute form; Compress does the inverse. Both are identity
// transforms on identifiers the context cannot resolve, so round-tripping
// through a context never loses information.
package iri

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ErrAmbiguousPrefix is returned by NewContext when two prefix table entries
// could match the same IRI, which would make compression order-dependent.
var ErrAmbiguousPrefix = errors.New("ambiguous prefix table")

// Context holds the namespace and prefix table used to expand and compress
// identifiers for one document. A nil *Context is valid and acts as the
// identity transform, supporting documents with no namespace context.
//
// Prefix names are iterated in sorted order during compression, and
// NewContext rejects overlapping prefix values, so compression is
// deterministic regardless of how the table was populated.
type Context struct {
	// Namespace is the document's base IRI. Namespace-relative local names
	// expand by direct concatenation.
	Namespace string

	prefixes map[string]string
	names    []string
	known    map[string]struct{}
	logger   *slog.Logger
}

// NewContext builds a Context, validating the prefix table. Empty prefix
// values, duplicate values, and values that are string prefixes of one
// another are rejected with ErrAmbiguousPrefix.
func NewContext(namespace string, prefixes map[string]string, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Context{
		Namespace: namespace,
		prefixes:  make(map[string]string, len(prefixes)),
		names:     make([]string, 0, len(prefixes)),
		logger:    logger,
	}
	for name, value := range prefixes {
		if value == "" {
			return nil, fmt.Errorf("%w: prefix %q has an empty value", ErrAmbiguousPrefix, name)
		}
		c.prefixes[name] = value
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	for i, a := range c.names {
		for _, b := range c.names[i+1:] {
			va, vb := c.prefixes[a], c.prefixes[b]
			if strings.HasPrefix(va, vb) || strings.HasPrefix(vb, va) {
				return nil, fmt.Errorf("%w: %q (%s) overlaps %q (%s)", ErrAmbiguousPrefix, a, va, b, vb)
			}
		}
	}
	return c, nil
}

// SetKnown records the set of identifiers defined by the current document.
// When set, Expand emits an advisory warning for namespace-relative
// identifiers outside the set (an undefined-element reference). The warning
// is diagnostic only; expansion proceeds normally.
func (c *Context) SetKnown(ids []string) {
	if c == nil {
		return
	}
	c.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.known[id] = struct{}{}
	}
}

// Prefixes returns a copy of the prefix table.
func (c *Context) Prefixes() map[string]string {
	if c == nil || len(c.prefixes) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.prefixes))
	for k, v := range c.prefixes {
		out[k] = v
	}
	return out
}

// Expand converts an identifier to absolute IRI form.
//
// A scheme-carrying identifier is rewritten through the prefix table when
// the scheme names a known prefix; otherwise it is already absolute (or
// opaque) and returned unchanged. A scheme-less identifier is treated as
// namespace-relative and concatenated onto the namespace.
func (c *Context) Expand(id string) string {
	if c == nil {
		return id
	}
	if scheme, rest, ok := splitScheme(id); ok {
		if prefix, found := c.prefixes[scheme]; found {
			return prefix + rest
		}
		return id
	}
	if c.known != nil {
		if _, ok := c.known[id]; !ok {
			c.logger.Warn("undefined element reference", "id", id)
		}
	}
	return c.Namespace + id
}

// Compress converts an absolute IRI to its shortest form under the context:
// the namespace is stripped outright, a matching prefix value is replaced by
// "name:", and anything else is returned unchanged. Compress is idempotent:
// an already-compressed identifier matches neither the namespace nor any
// prefix value and passes through.
func (c *Context) Compress(iri string) string {
	if c == nil {
		return iri
	}
	if c.Namespace != "" && strings.HasPrefix(iri, c.Namespace) {
		return strings.TrimPrefix(iri, c.Namespace)
	}
	for _, name := range c.names {
		if value := c.prefixes[name]; strings.HasPrefix(iri, value) {
			return name + ":" + strings.TrimPrefix(iri, value)
		}
	}
	return iri
}

// HasScheme reports whether id carries an RFC 3986 scheme, which is what
// distinguishes prefixed or absolute identifiers from namespace-relative
// local names.
func HasScheme(id string) bool {
	_, _, ok := splitScheme(id)
	return ok
}

// splitScheme splits an identifier of the form "scheme:rest" where scheme
// follows the RFC 3986 grammar (ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )).
// Identifiers with no such scheme report ok == false.
func splitScheme(id string) (scheme, rest string, ok bool) {
	i := strings.IndexByte(id, ':')
	if i <= 0 {
		return "", "", false
	}
	if !isAlpha(id[0]) {
		return "", "", false
	}
	for j := 1; j < i; j++ {
		ch := id[j]
		if !isAlpha(ch) && !isDigit(ch) && ch != '+' && ch != '-' && ch != '.' {
			return "", "", false
		}
	}
	return id[:i], id[i+1:], true
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

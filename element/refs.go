package element

// Transform rewrites one identifier, typically iri.(*Context).Expand or
// iri.(*Context).Compress.
type Transform func(id string) string

// refField names one identifier-valued property inside a kind's bag.
type refField struct {
	name string
	many bool
}

// genericListFields are identifier-list properties that may appear in the
// property bag of any kind (container and collection kinds).
var genericListFields = []string{"element", "rootElement", "originator", "members"}

// kindFields maps an element kind to its kind-specific identifier fields.
// Kinds absent from this table carry only the kind-independent fields
// (id, creator) and the generic list fields.
var kindFields = map[string][]refField{
	KindAnnotation:   {{name: "subject"}},
	KindRelationship: {{name: "from"}, {name: "to", many: true}},
}

// Walk applies fn to every identifier-valued field of el and returns the
// rewritten element together with every identifier encountered before
// transformation (including el's own id). el itself is never mutated.
// Absent fields are skipped; non-string values inside list fields are
// passed through untouched.
func Walk(el *Element, fn Transform) (*Element, []string) {
	out := el.Clone()
	seen := []string{el.ID}
	out.ID = fn(el.ID)
	for i, c := range el.Creator {
		seen = append(seen, c)
		out.Creator[i] = fn(c)
	}
	for _, name := range genericListFields {
		seen = walkList(out.Props, name, fn, seen)
	}
	for _, f := range kindFields[el.Kind] {
		if f.many {
			seen = walkList(out.Props, f.name, fn, seen)
		} else {
			seen = walkScalar(out.Props, f.name, fn, seen)
		}
	}
	return out, seen
}

// References returns every identifier el mentions without rewriting anything.
func References(el *Element) []string {
	_, seen := Walk(el, func(id string) string { return id })
	return seen
}

func walkList(props map[string]any, name string, fn Transform, seen []string) []string {
	raw, ok := props[name]
	if !ok {
		return seen
	}
	switch vals := raw.(type) {
	case []any:
		next := make([]any, len(vals))
		for i, v := range vals {
			s, isString := v.(string)
			if !isString {
				next[i] = v
				continue
			}
			seen = append(seen, s)
			next[i] = fn(s)
		}
		props[name] = next
	case []string:
		next := make([]any, len(vals))
		for i, s := range vals {
			seen = append(seen, s)
			next[i] = fn(s)
		}
		props[name] = next
	case string:
		// Scalar stored form normalizes to a one-element list.
		seen = append(seen, vals)
		props[name] = []any{fn(vals)}
	}
	return seen
}

func walkScalar(props map[string]any, name string, fn Transform, seen []string) []string {
	raw, ok := props[name]
	if !ok {
		return seen
	}
	if s, isString := raw.(string); isString {
		seen = append(seen, s)
		props[name] = fn(s)
	}
	return seen
}

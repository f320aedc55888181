package document

import (
	"fmt"
	"log/slog"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
	"github.com/spdxkit/spdxtu/store"
)

// Assembler builds transfer-unit documents from an element pool.
type Assembler struct {
	pool   *store.Store
	logger *slog.Logger
}

// NewAssembler returns an Assembler over the given pool.
func NewAssembler(pool *store.Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{pool: pool, logger: logger}
}

// Assemble computes the reference closure of cfg.Include and wraps it with
// document-level metadata copied from the creation-info element. Every
// identifier in the output is compressed against cfg's namespace and
// prefixes. A missing creation-info element fails with ErrUnknownReference
// before anything else happens; ordinary unresolvable references inside the
// closure are logged and skipped.
func (a *Assembler) Assemble(cfg *Config) (*Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, err := iri.NewContext(cfg.Namespace, cfg.Prefixes, a.logger)
	if err != nil {
		return nil, err
	}

	ci, err := a.pool.Get(cfg.CreationInfo)
	if err != nil {
		return nil, fmt.Errorf("creation info %q: %w", cfg.CreationInfo, ErrUnknownReference)
	}
	a.logger.Info("creation info resolved",
		"id", ci.ID, "creator", ci.Creator, "created", ci.Created)

	doc := &Document{
		Namespace:   cfg.Namespace,
		Prefixes:    cfg.Prefixes,
		Created:     ci.Created,
		SpecVersion: ci.SpecVersion,
		Profile:     ci.Profile,
		DataLicense: ci.DataLicense,
	}
	doc.Creator = make([]string, len(ci.Creator))
	for i, creator := range ci.Creator {
		doc.Creator[i] = ctx.Compress(creator)
	}

	cl := buildClosure(a.pool, ctx, cfg.Include, a.logger)

	excluded := make(map[string]struct{}, len(cfg.Exclude))
	for _, id := range cfg.Exclude {
		excluded[id] = struct{}{}
	}
	for i, el := range cl.elements {
		if _, skip := excluded[cl.sources[i]]; skip {
			a.logger.Info("element excluded from document", "id", cl.sources[i])
			continue
		}
		doc.Elements = append(doc.Elements, el)
	}
	if doc.Elements == nil {
		doc.Elements = []*element.Element{}
	}

	a.logger.Info("document assembled",
		"namespace", doc.Namespace, "elements", len(doc.Elements))
	return doc, nil
}

package document

import (
	"log/slog"

	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/iri"
	"github.com/spdxkit/spdxtu/store"
)

// closure is the result of one reference-closure pass: the compressed
// element bodies in discovery order, the pool ids they came from (parallel
// to elements), and every id visited. The accumulator lives here, not on the
// iri.Context, so a context can never leak state between passes.
type closure struct {
	elements []*element.Element
	sources  []string
	visited  map[string]struct{}
}

// buildClosure walks the reference graph breadth-first from seeds until a
// fixed point. Each fetched element is rewritten in compress mode against
// ctx; every identifier the walker reports (pre-transform, so in pool key
// form) that has not been seen joins the next generation. Identifiers that
// do not resolve in the pool are logged and skipped, producing a partial
// document rather than a failure. Cycles terminate because the visited set
// only grows.
//
// Discovery order is deterministic: seeds in configuration order, then
// references in the order the walker reports them.
func buildClosure(pool *store.Store, ctx *iri.Context, seeds []string, logger *slog.Logger) *closure {
	c := &closure{visited: make(map[string]struct{})}
	queue := append([]string(nil), seeds...)
	enqueued := make(map[string]struct{}, len(seeds))
	for _, id := range seeds {
		enqueued[id] = struct{}{}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, done := c.visited[id]; done {
			continue
		}
		c.visited[id] = struct{}{}

		el, err := pool.Get(id)
		if err != nil {
			logger.Warn("referenced element not in pool, skipping", "id", id)
			continue
		}

		compressed, refs := element.Walk(el, ctx.Compress)
		c.elements = append(c.elements, compressed)
		c.sources = append(c.sources, id)

		for _, ref := range refs {
			if _, seen := enqueued[ref]; seen {
				continue
			}
			enqueued[ref] = struct{}{}
			queue = append(queue, ref)
		}
	}
	return c
}

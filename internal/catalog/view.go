package catalog

import (
	"context"
	"sync/atomic"

	"ufscompras/internal/domain"
)

// View tracks the latest catalog request of one consumer. A page fetched by
// an earlier request reports itself stale once a newer one has started, so
// the consumer can drop it instead of rendering outdated results.
type View struct {
	engine     *Engine
	generation atomic.Uint64
}

// NewView creates a view over the engine.
func (e *Engine) NewView() *View {
	return &View{engine: e}
}

// Page is a catalog result tagged with the request generation that produced it.
type Page struct {
	domain.ProductListResponse

	view       *View
	generation uint64
}

// Stale reports whether a newer Fetch started after this page's request.
func (p *Page) Stale() bool {
	return p.view.generation.Load() != p.generation
}

// Fetch starts a new generation and runs the query. The error, if any, is
// returned even for stale requests; callers check Stale first.
func (v *View) Fetch(ctx context.Context, filters domain.ProductFilters) (*Page, error) {
	gen := v.generation.Add(1)

	resp, err := v.engine.GetProducts(ctx, filters)
	return &Page{ProductListResponse: resp, view: v, generation: gen}, err
}

// Invalidate marks every page fetched so far as stale, e.g. when the
// consumer goes away.
func (v *View) Invalidate() {
	v.generation.Add(1)
}

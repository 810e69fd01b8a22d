package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"

	"ufscompras/internal/backend"
	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

// Fetcher is the read side of the backend transport.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// State is the lifecycle state of a CategoryCache.
type State int

const (
	StateEmpty State = iota
	StatePending
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CategoryCache loads the category list once per process and resolves slugs
// to backend ids. Concurrent callers share a single in-flight load. A failed
// load is not cached: the next call loads again.
type CategoryCache struct {
	fetcher Fetcher
	group   singleflight.Group

	mu       sync.RWMutex
	state    State
	list     []domain.Category
	slugToID map[string]string
}

// NewCategoryCache creates an empty cache backed by fetcher.
func NewCategoryCache(fetcher Fetcher) *CategoryCache {
	return &CategoryCache{
		fetcher:  fetcher,
		slugToID: make(map[string]string),
	}
}

// State returns the current lifecycle state.
func (c *CategoryCache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Resolve returns the category list, loading it on first use. Every caller
// receives the same slice, which must not be modified. A caller whose ctx ends
// stops waiting while the shared load carries on for the others.
func (c *CategoryCache) Resolve(ctx context.Context) ([]domain.Category, error) {
	c.mu.RLock()
	if c.state == StateResolved {
		list := c.list
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("categories", func() (any, error) {
		return c.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Category), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Categories is an alias of Resolve.
func (c *CategoryCache) Categories(ctx context.Context) ([]domain.Category, error) {
	return c.Resolve(ctx)
}

func (c *CategoryCache) load(ctx context.Context) ([]domain.Category, error) {
	c.mu.Lock()
	if c.state == StateResolved {
		// A load finished between the caller's check and joining the group.
		list := c.list
		c.mu.Unlock()
		return list, nil
	}
	c.state = StatePending
	c.mu.Unlock()

	var records []backend.CategoryRecord
	err := c.fetcher.GetJSON(ctx, "/categories", nil, &records)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		observability.CategoryCacheLoads.WithLabelValues("error").Inc()
		observability.FromContext(ctx).Warn("category load failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	list := make([]domain.Category, 0, len(records))
	for _, rec := range records {
		category := normalizeCategory(rec)
		if category.Slug != "" && category.ID != "" {
			c.slugToID[category.Slug] = category.ID
		}
		list = append(list, category)
	}

	c.list = list
	c.state = StateResolved
	observability.CategoryCacheLoads.WithLabelValues("ok").Inc()
	observability.FromContext(ctx).Debug("categories loaded", slog.Int("count", len(list)))

	return list, nil
}

// Remember records a slug to id mapping learned from any backend record.
func (c *CategoryCache) Remember(slug, id string) {
	if slug == "" || id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slugToID[slug] = id
}

// CategoryBySlug returns the category with slug. An unknown slug is reported
// through ok, not as an error.
func (c *CategoryCache) CategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error) {
	list, err := c.Resolve(ctx)
	if err != nil {
		return domain.Category{}, false, err
	}
	for _, category := range list {
		if category.Slug == slug {
			return category, true, nil
		}
	}
	return domain.Category{}, false, nil
}

// CategoryIDBySlug returns the backend id for slug. Mappings learned through
// Remember answer without loading the category list.
func (c *CategoryCache) CategoryIDBySlug(ctx context.Context, slug string) (string, bool, error) {
	if id, ok := c.lookup(slug); ok {
		return id, true, nil
	}
	if _, err := c.Resolve(ctx); err != nil {
		return "", false, err
	}
	id, ok := c.lookup(slug)
	return id, ok, nil
}

func (c *CategoryCache) lookup(slug string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.slugToID[slug]
	return id, ok
}

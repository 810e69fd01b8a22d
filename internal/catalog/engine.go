package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ufscompras/internal/backend"
	"ufscompras/internal/domain"
)

// DefaultFeaturedLimit is used when GetFeaturedProducts is given no limit.
const DefaultFeaturedLimit = 8

// AccessoryOptions narrows GetAccessories.
type AccessoryOptions struct {
	CategoryID string
}

// Engine turns ProductFilters into backend queries and backend records into
// storefront products.
type Engine struct {
	backend    Fetcher
	categories *CategoryCache
}

// NewEngine creates a catalog engine. The category cache is shared with
// every other consumer of the same process.
func NewEngine(fetcher Fetcher, categories *CategoryCache) *Engine {
	return &Engine{
		backend:    fetcher,
		categories: categories,
	}
}

// Categories exposes the engine's category cache.
func (e *Engine) Categories() *CategoryCache {
	return e.categories
}

// GetProducts runs a catalog query. Facets the backend may ignore are applied
// again locally, but pagination is reported exactly as the backend sent it,
// so its totals count items before local filtering.
func (e *Engine) GetProducts(ctx context.Context, filters domain.ProductFilters) (domain.ProductListResponse, error) {
	query, err := e.productsQuery(ctx, filters)
	if err != nil {
		return domain.ProductListResponse{}, err
	}

	var record backend.ProductListRecord
	if err := e.backend.GetJSON(ctx, "/products", query, &record); err != nil {
		return domain.ProductListResponse{}, fmt.Errorf("failed to get products: %w", err)
	}

	items := e.normalizeAll(record.Data, filters.Category)
	items = SortByPrice(ApplyFilters(items, filters), filters.Sort)

	return domain.ProductListResponse{
		Items: items,
		Pagination: domain.Pagination{
			Page:       record.Pagination.Page,
			Limit:      record.Pagination.Limit,
			Total:      record.Pagination.Total,
			TotalPages: record.Pagination.TotalPages,
		},
	}, nil
}

// productsQuery encodes the filters the backend understands. An unknown
// category slug drops the category constraint instead of failing.
func (e *Engine) productsQuery(ctx context.Context, f domain.ProductFilters) (url.Values, error) {
	query := url.Values{}

	if f.Category != "" {
		id, ok, err := e.categories.CategoryIDBySlug(ctx, f.Category)
		if err != nil {
			return nil, err
		}
		if ok {
			query.Set("category", id)
		}
	}

	if len(f.Colors) > 0 {
		query.Set("colors", strings.Join(f.Colors, ","))
	}
	if len(f.Sizes) > 0 {
		sizes := make([]string, len(f.Sizes))
		for i, s := range f.Sizes {
			sizes[i] = string(s)
		}
		query.Set("sizes", strings.Join(sizes, ","))
	}
	if f.PriceMin != nil {
		query.Set("priceMin", f.PriceMin.String())
	}
	if f.PriceMax != nil {
		query.Set("priceMax", f.PriceMax.String())
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Sort != "" {
		query.Set("sort", string(f.Sort))
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.OnlyFeatured {
		query.Set("featured", "true")
	}

	return query, nil
}

// GetProductByID fetches one product. An empty id is "not found" without a
// request; a backend 404 is a *domain.FetchError like any other non-2xx.
func (e *Engine) GetProductByID(ctx context.Context, id string) (domain.Product, bool, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, false, nil
	}

	var record backend.ProductRecord
	if err := e.backend.GetJSON(ctx, "/products/"+url.PathEscape(id), nil, &record); err != nil {
		return domain.Product{}, false, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	return e.normalize(record, ""), true, nil
}

// GetFeaturedProducts returns the backend's featured selection.
func (e *Engine) GetFeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	var records []backend.ProductRecord
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := e.backend.GetJSON(ctx, "/products/featured", query, &records); err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}

	return e.normalizeAll(records, ""), nil
}

// GetAccessories lists accessories, optionally for one category id.
func (e *Engine) GetAccessories(ctx context.Context, opts AccessoryOptions) ([]domain.Accessory, error) {
	query := url.Values{}
	if opts.CategoryID != "" {
		query.Set("category", opts.CategoryID)
	}

	var records []backend.AccessoryRecord
	if err := e.backend.GetJSON(ctx, "/accessories", query, &records); err != nil {
		return nil, fmt.Errorf("failed to get accessories: %w", err)
	}

	accessories := make([]domain.Accessory, len(records))
	for i, rec := range records {
		accessories[i] = normalizeAccessory(rec)
	}
	return accessories, nil
}

func (e *Engine) normalizeAll(records []backend.ProductRecord, requestedSlug string) []domain.Product {
	products := make([]domain.Product, len(records))
	for i, rec := range records {
		products[i] = e.normalize(rec, requestedSlug)
	}
	return products
}

// normalize converts a record and feeds its embedded category to the cache.
func (e *Engine) normalize(rec backend.ProductRecord, requestedSlug string) domain.Product {
	if rec.Category != nil {
		e.categories.Remember(rec.Category.Slug, rec.Category.ID)
	}
	return normalizeProduct(rec, requestedSlug)
}

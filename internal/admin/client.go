// Package admin exposes the backend's administrative endpoints. Every call
// carries the administrator's bearer token; the backend enforces the role.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ufscompras/internal/backend"
	"ufscompras/internal/domain"
)

// Doer sends an authenticated JSON request. *backend.Client implements it.
type Doer interface {
	DoJSON(ctx context.Context, method, path, token string, payload, out any) (int, error)
}

// Client is a thin pass-through to the admin API.
type Client struct {
	transport Doer
	token     string
}

// NewClient binds transport to token. An empty token is accepted here and
// rejected by every call with domain.ErrMissingToken.
func NewClient(transport Doer, token string) *Client {
	return &Client{transport: transport, token: token}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if c.token == "" {
		return domain.ErrMissingToken
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	if _, err := c.transport.DoJSON(ctx, method, path, c.token, payload, out); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return &domain.FetchError{Status: apiErr.Status, URL: apiErr.URL}
		}
		return err
	}
	return nil
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]backend.CategoryRecord, error) {
	var out []backend.CategoryRecord
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (backend.CategoryRecord, error) {
	var out backend.CategoryRecord
	if in.Name == "" {
		return out, fmt.Errorf("%w: nome is required", domain.ErrInvalidInput)
	}
	if err := c.do(ctx, http.MethodPost, "/categories", nil, in, &out); err != nil {
		return out, fmt.Errorf("failed to create category: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (backend.CategoryRecord, error) {
	var out backend.CategoryRecord
	if err := c.do(ctx, http.MethodPut, itemPath("/categories", id), nil, in, &out); err != nil {
		return out, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, itemPath("/categories", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

// Products

// ListProducts forwards params unchanged, so any backend filter can be used.
func (c *Client) ListProducts(ctx context.Context, params url.Values) (backend.ProductListRecord, error) {
	var out backend.ProductListRecord
	if err := c.do(ctx, http.MethodGet, "/products", params, nil, &out); err != nil {
		return out, fmt.Errorf("failed to list products: %w", err)
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, fields map[string]any) (backend.ProductRecord, error) {
	var out backend.ProductRecord
	if err := c.do(ctx, http.MethodPost, "/products", nil, fields, &out); err != nil {
		return out, fmt.Errorf("failed to create product: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]any) (backend.ProductRecord, error) {
	var out backend.ProductRecord
	if err := c.do(ctx, http.MethodPut, itemPath("/products", id), nil, fields, &out); err != nil {
		return out, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, itemPath("/products", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// Accessories

// ListAccessories includes inactive accessories.
func (c *Client) ListAccessories(ctx context.Context) ([]backend.AccessoryRecord, error) {
	var out []backend.AccessoryRecord
	query := url.Values{"ativo": {"all"}}
	if err := c.do(ctx, http.MethodGet, "/accessories", query, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list accessories: %w", err)
	}
	return out, nil
}

func (c *Client) CreateAccessory(ctx context.Context, fields map[string]any) (backend.AccessoryRecord, error) {
	var out backend.AccessoryRecord
	if err := c.do(ctx, http.MethodPost, "/accessories", nil, fields, &out); err != nil {
		return out, fmt.Errorf("failed to create accessory: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateAccessory(ctx context.Context, id string, fields map[string]any) (backend.AccessoryRecord, error) {
	var out backend.AccessoryRecord
	if err := c.do(ctx, http.MethodPut, itemPath("/accessories", id), nil, fields, &out); err != nil {
		return out, fmt.Errorf("failed to update accessory %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteAccessory(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, itemPath("/accessories", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete accessory %s: %w", id, err)
	}
	return nil
}

// Movements

func (c *Client) ListMovements(ctx context.Context, q MovementQuery) ([]Movement, error) {
	query := q.DateRange.values()
	setIf(query, "tipo", string(q.Type))
	setIf(query, "produto", q.ProductID)

	var out []Movement
	if err := c.do(ctx, http.MethodGet, "/movements", query, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return out, nil
}

// CreateMovement validates m locally before sending it.
func (c *Client) CreateMovement(ctx context.Context, m NewMovement) (Movement, error) {
	var out Movement
	if err := m.Validate(); err != nil {
		return out, err
	}
	if err := c.do(ctx, http.MethodPost, "/movements", nil, m, &out); err != nil {
		return out, fmt.Errorf("failed to create movement: %w", err)
	}
	return out, nil
}

// Reports

func (c *Client) SalesReport(ctx context.Context, r DateRange) (SalesReport, error) {
	var out SalesReport
	if err := c.do(ctx, http.MethodGet, "/reports/sales", r.values(), nil, &out); err != nil {
		return out, fmt.Errorf("failed to load sales report: %w", err)
	}
	return out, nil
}

func (c *Client) StockMovementReport(ctx context.Context, r DateRange) (StockMovementReport, error) {
	var out StockMovementReport
	if err := c.do(ctx, http.MethodGet, "/reports/stock-movements", r.values(), nil, &out); err != nil {
		return out, fmt.Errorf("failed to load stock report: %w", err)
	}
	return out, nil
}

// TopProducts lists the best sellers. A limit of zero leaves the choice to
// the backend.
func (c *Client) TopProducts(ctx context.Context, r DateRange, limit int) ([]TopProductReport, error) {
	query := r.values()
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out []TopProductReport
	if err := c.do(ctx, http.MethodGet, "/reports/top-products", query, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}
	return out, nil
}

func (r DateRange) values() url.Values {
	query := url.Values{}
	setIf(query, "from", r.From)
	setIf(query, "to", r.To)
	return query
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ufscompras/internal/catalog"
	"ufscompras/internal/domain"
)

// Catalog is the read side of the storefront. *catalog.Engine implements it
// through CatalogService.
type Catalog interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error)
	GetProducts(ctx context.Context, filters domain.ProductFilters) (domain.ProductListResponse, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, bool, error)
	GetFeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	GetAccessories(ctx context.Context, opts catalog.AccessoryOptions) ([]domain.Accessory, error)
}

// CatalogService joins the engine and its category cache behind Catalog.
type CatalogService struct {
	*catalog.Engine
}

func (s CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.Engine.Categories().Resolve(ctx)
}

func (s CatalogService) CategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error) {
	return s.Engine.Categories().CategoryBySlug(ctx, slug)
}

// CatalogHandler serves categories, products and accessories
type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(c Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		backendFailure(w, r, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, ok, err := h.catalog.CategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		backendFailure(w, r, "get category", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Categoria não encontrada")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// ListProducts reads the UI's query keys; values that do not parse are
// dropped rather than rejected.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters := domain.ParseProductFilters(r.URL.Query())

	list, err := h.catalog.GetProducts(r.Context(), filters)
	if err != nil {
		backendFailure(w, r, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.catalog.GetFeaturedProducts(r.Context(), limit)
	if err != nil {
		backendFailure(w, r, "list featured products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct answers 404 both for a blank id and for a backend 404.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok, err := h.catalog.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) && fetchErr.IsNotFound() {
			writeError(w, http.StatusNotFound, "Produto não encontrado")
			return
		}
		backendFailure(w, r, "get product", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListAccessories(w http.ResponseWriter, r *http.Request) {
	opts := catalog.AccessoryOptions{CategoryID: r.URL.Query().Get("category")}

	accessories, err := h.catalog.GetAccessories(r.Context(), opts)
	if err != nil {
		backendFailure(w, r, "list accessories", err)
		return
	}
	writeJSON(w, http.StatusOK, accessories)
}

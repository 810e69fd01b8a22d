package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ufscompras/internal/domain"
	"ufscompras/internal/testutil"
)

func failWith(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, status, map[string]string{"message": "backend error"})
	}
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestCatalogHandler_ListCategories(t *testing.T) {
	s := newStorefront(t)

	w := s.get("/api/categories")

	testutil.AssertStatusCode(t, w, http.StatusOK)
	categories := testutil.DecodeJSON[[]domain.Category](t, w)
	require.Len(t, categories, 3)

	shirts := categories[0]
	assert.Equal(t, "camisetas", shirts.Slug)
	assert.Equal(t, "Camisetas", shirts.Title)
	assert.Equal(t, domain.DefaultCategoryDescription, shirts.Description)
	assert.Equal(t, domain.CategoryShirtsImage, shirts.Image)
	assert.Equal(t, []string{}, shirts.Subcategories)

	assert.Equal(t, []string{"Moletom", "Tech"}, categories[2].Subcategories)
}

func TestCatalogHandler_ListCategoriesIsCached(t *testing.T) {
	s := newStorefront(t)

	s.get("/api/categories")
	s.get("/api/categories")
	s.get("/api/categories/calcas")

	assert.Equal(t, 1, s.backend.Requests(http.MethodGet, "/api/categories"))
}

func TestCatalogHandler_GetCategory(t *testing.T) {
	s := newStorefront(t)

	t.Run("known slug", func(t *testing.T) {
		w := s.get("/api/categories/calcas")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		category := testutil.DecodeJSON[domain.Category](t, w)
		assert.Equal(t, "cat-calcas", category.ID)
		assert.Equal(t, "Conforto e versatilidade.", category.Description)
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := s.get("/api/categories/sapatos")
		testutil.AssertJSONError(t, w, http.StatusNotFound, "Categoria não encontrada")
	})
}

func TestCatalogHandler_CategoriesBackendDown(t *testing.T) {
	s := newStorefront(t)
	s.backend.Handle(http.MethodGet, "/api/categories", failWith(http.StatusInternalServerError))

	w := s.get("/api/categories")

	testutil.AssertJSONError(t, w, http.StatusBadGateway, MessageBackendUnavailable)
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		list := testutil.DecodeJSON[domain.ProductListResponse](t, w)
		assert.Equal(t, []string{"prod-shirt", "prod-jeans", "prod-jacket"}, productIDs(list.Items))
		assert.Equal(t, 3, list.Pagination.Total)
		assert.Equal(t, 1, list.Pagination.TotalPages)
	})

	t.Run("category slug becomes the backend id", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products?categoria=calcas")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		list := testutil.DecodeJSON[domain.ProductListResponse](t, w)
		assert.Equal(t, []string{"prod-jeans"}, productIDs(list.Items))
		assert.Equal(t, "calcas", list.Items[0].Category)
		assert.Equal(t, "cat-calcas", s.backend.LastQuery(http.MethodGet, "/api/products").Get("category"))
	})

	t.Run("unknown category is dropped", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products?categoria=sapatos")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		list := testutil.DecodeJSON[domain.ProductListResponse](t, w)
		assert.Len(t, list.Items, 3)
		assert.Empty(t, s.backend.LastQuery(http.MethodGet, "/api/products").Get("category"))
	})

	t.Run("colors are reapplied locally and sorted", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products?cores=PRETO&ordem=price-desc")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		list := testutil.DecodeJSON[domain.ProductListResponse](t, w)
		assert.Equal(t, []string{"prod-jacket", "prod-shirt"}, productIDs(list.Items))
		assert.Equal(t, "319.9", list.Items[0].Price.String())
		// Pagination is the backend's, counted before local filtering.
		assert.Equal(t, 3, list.Pagination.Total)

		query := s.backend.LastQuery(http.MethodGet, "/api/products")
		assert.Equal(t, "preto", query.Get("colors"))
		assert.Equal(t, "price-desc", query.Get("sort"))
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products?tamanhos=XXL&precoMin=abc&page=-2&ordem=random")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		query := s.backend.LastQuery(http.MethodGet, "/api/products")
		assert.Empty(t, query.Get("sizes"))
		assert.Empty(t, query.Get("priceMin"))
		assert.Empty(t, query.Get("page"))
		assert.Empty(t, query.Get("sort"))
	})

	t.Run("pagination is passed through", func(t *testing.T) {
		s := newStorefront(t)

		w := s.get("/api/products?page=2&limit=2")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		list := testutil.DecodeJSON[domain.ProductListResponse](t, w)
		assert.Equal(t, []string{"prod-jacket"}, productIDs(list.Items))
		assert.Equal(t, domain.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, list.Pagination)
	})

	t.Run("backend failure", func(t *testing.T) {
		s := newStorefront(t)
		s.backend.Handle(http.MethodGet, "/api/products", failWith(http.StatusServiceUnavailable))

		w := s.get("/api/products")

		testutil.AssertJSONError(t, w, http.StatusBadGateway, MessageBackendUnavailable)
	})
}

func TestCatalogHandler_ListFeatured(t *testing.T) {
	s := newStorefront(t)

	w := s.get("/api/products/featured")
	testutil.AssertStatusCode(t, w, http.StatusOK)
	featured := testutil.DecodeJSON[[]domain.Product](t, w)
	assert.Equal(t, []string{"prod-shirt", "prod-jeans"}, productIDs(featured))
	assert.Equal(t, "8", s.backend.LastQuery(http.MethodGet, "/api/products/featured").Get("limit"))

	w = s.get("/api/products/featured?limit=1")
	testutil.AssertStatusCode(t, w, http.StatusOK)
	featured = testutil.DecodeJSON[[]domain.Product](t, w)
	assert.Len(t, featured, 1)
	assert.Equal(t, "1", s.backend.LastQuery(http.MethodGet, "/api/products/featured").Get("limit"))
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	s := newStorefront(t)

	t.Run("found", func(t *testing.T) {
		w := s.get("/api/products/prod-shirt")

		testutil.AssertStatusCode(t, w, http.StatusOK)
		body := w.Body.String()
		product := testutil.DecodeJSON[domain.Product](t, w)
		assert.Equal(t, "Camiseta Minimal", product.Name)
		assert.Equal(t, "camisetas", product.Category)
		assert.Equal(t, []string{"preto", "branco"}, product.Colors)
		assert.Equal(t, []domain.Size{domain.SizeP, domain.SizeM, domain.SizeG}, product.Sizes)
		assert.Contains(t, body, `"price":149.9`)
	})

	t.Run("backend 404", func(t *testing.T) {
		w := s.get("/api/products/prod-missing")
		testutil.AssertJSONError(t, w, http.StatusNotFound, "Produto não encontrado")
	})

	t.Run("backend failure", func(t *testing.T) {
		s.backend.Handle(http.MethodGet, "/api/products/prod-jeans", failWith(http.StatusInternalServerError))

		w := s.get("/api/products/prod-jeans")
		testutil.AssertJSONError(t, w, http.StatusBadGateway, MessageBackendUnavailable)
	})
}

func TestCatalogHandler_ListAccessories(t *testing.T) {
	s := newStorefront(t)

	w := s.get("/api/accessories?category=cat-blusas")

	testutil.AssertStatusCode(t, w, http.StatusOK)
	accessories := testutil.DecodeJSON[[]domain.Accessory](t, w)
	require.Len(t, accessories, 2)
	assert.Equal(t, "Bucket Hat", accessories[0].Name)
	assert.Equal(t, "89.9", accessories[0].Price.String())
	assert.Equal(t, "cat-blusas", s.backend.LastQuery(http.MethodGet, "/api/accessories").Get("category"))
}

package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ufscompras/internal/domain"
)

func product(id, price string, colors []string, sizes ...domain.Size) domain.Product {
	return domain.Product{ID: id, Price: decimal.RequireFromString(price), Colors: colors, Sizes: sizes}
}

func TestApplyFilters(t *testing.T) {
	products := []domain.Product{
		product("a", "50", []string{"preto"}, domain.SizeP),
		product("b", "100", []string{"branco", "roxo"}, domain.SizeM, domain.SizeG),
		product("c", "150", []string{"preto", "vinho"}, domain.SizeGG),
	}
	min := decimal.RequireFromString("100")
	max := decimal.RequireFromString("150")

	tests := []struct {
		name    string
		filters domain.ProductFilters
		want    []string
	}{
		{"no_facets", domain.ProductFilters{}, []string{"a", "b", "c"}},
		{"color_overlap", domain.ProductFilters{Colors: []string{"vinho", "roxo"}}, []string{"b", "c"}},
		{"size_overlap", domain.ProductFilters{Sizes: []domain.Size{domain.SizeP, domain.SizeGG}}, []string{"a", "c"}},
		{"colors_and_sizes_conjunctive", domain.ProductFilters{Colors: []string{"preto"}, Sizes: []domain.Size{domain.SizeGG}}, []string{"c"}},
		{"price_min_inclusive", domain.ProductFilters{PriceMin: &min}, []string{"b", "c"}},
		{"price_max_inclusive", domain.ProductFilters{PriceMax: &min}, []string{"a", "b"}},
		{"price_range", domain.ProductFilters{PriceMin: &min, PriceMax: &max}, []string{"b", "c"}},
		{"subcategory_never_matches_normalized_products", domain.ProductFilters{Subcategory: "Básicas"}, []string{}},
		{"ignores_backend_side_fields", domain.ProductFilters{Category: "x", Search: "y", Page: 3}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productIDs(ApplyFilters(products, tt.filters)))
		})
	}
}

func TestSortByPrice(t *testing.T) {
	products := []domain.Product{
		product("a", "99.9", nil),
		product("b", "10", nil),
		product("c", "99.90", nil),
		product("d", "200", nil),
	}

	assert.Equal(t, []string{"b", "a", "c", "d"}, productIDs(SortByPrice(products, domain.SortPriceAsc)))
	assert.Equal(t, []string{"d", "a", "c", "b"}, productIDs(SortByPrice(products, domain.SortPriceDesc)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, productIDs(SortByPrice(products, "")))
	assert.Equal(t, "a", products[0].ID, "input must not be reordered")
}

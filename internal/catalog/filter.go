package catalog

import (
	"slices"

	"ufscompras/internal/domain"
)

// ApplyFilters keeps the products matching every facet set in f. Colors and
// sizes match on overlap; price bounds are inclusive. Category, search and
// paging are the backend's job and are ignored here.
func ApplyFilters(products []domain.Product, f domain.ProductFilters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, f domain.ProductFilters) bool {
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	if len(f.Colors) > 0 && !p.HasAnyColor(f.Colors) {
		return false
	}
	if len(f.Sizes) > 0 && !p.HasAnySize(f.Sizes) {
		return false
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	return true
}

// SortByPrice returns products ordered by price. Equal prices keep their
// relative order; an empty order returns the input order.
func SortByPrice(products []domain.Product, order domain.SortOrder) []domain.Product {
	sorted := slices.Clone(products)
	switch order {
	case domain.SortPriceAsc:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(sorted, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}
	return sorted
}

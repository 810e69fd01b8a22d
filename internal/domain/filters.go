package domain

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOrder selects how catalog results are ordered.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder accepts the two price orders and rejects everything else.
func ParseSortOrder(value string) (SortOrder, bool) {
	switch SortOrder(strings.TrimSpace(value)) {
	case SortPriceAsc:
		return SortPriceAsc, true
	case SortPriceDesc:
		return SortPriceDesc, true
	default:
		return "", false
	}
}

// ProductFilters describes a catalog query. Zero values mean "not set".
type ProductFilters struct {
	Category     string
	Subcategory  string
	Colors       []string
	Sizes        []Size
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Page         int
	Limit        int
	Sort         SortOrder
	Search       string
	OnlyFeatured bool
}

// Query string keys used by the storefront UI.
const (
	QueryCategory    = "categoria"
	QuerySubcategory = "subcategoria"
	QueryColors      = "cores"
	QuerySizes       = "tamanhos"
	QueryPriceMin    = "precoMin"
	QueryPriceMax    = "precoMax"
	QuerySort        = "ordem"
	QuerySearch      = "busca"
	QueryPage        = "page"
	QueryLimit       = "limit"
	QueryFeatured    = "destaque"
)

// ParseProductFilters reads filters from a URL query. Invalid values are
// dropped rather than reported, so a hand-edited URL degrades to a wider
// query instead of an error page.
func ParseProductFilters(values url.Values) ProductFilters {
	f := ProductFilters{
		Category:    strings.TrimSpace(values.Get(QueryCategory)),
		Subcategory: strings.TrimSpace(values.Get(QuerySubcategory)),
		Search:      strings.TrimSpace(values.Get(QuerySearch)),
		PriceMin:    parseDecimal(values.Get(QueryPriceMin)),
		PriceMax:    parseDecimal(values.Get(QueryPriceMax)),
		Page:        parsePositiveInt(values.Get(QueryPage)),
		Limit:       parsePositiveInt(values.Get(QueryLimit)),
	}

	for _, item := range splitList(values.Get(QueryColors)) {
		if color, ok := NormalizeColor(item); ok && !containsString(f.Colors, color) {
			f.Colors = append(f.Colors, color)
		}
	}
	for _, item := range splitList(values.Get(QuerySizes)) {
		if size, ok := ParseSize(item); ok && !containsSize(f.Sizes, size) {
			f.Sizes = append(f.Sizes, size)
		}
	}
	if sort, ok := ParseSortOrder(values.Get(QuerySort)); ok {
		f.Sort = sort
	}
	if featured, err := strconv.ParseBool(values.Get(QueryFeatured)); err == nil {
		f.OnlyFeatured = featured
	}

	return f
}

// Values encodes the filters with the UI's query keys, omitting unset ones.
func (f ProductFilters) Values() url.Values {
	values := url.Values{}
	if f.Category != "" {
		values.Set(QueryCategory, f.Category)
	}
	if f.Subcategory != "" {
		values.Set(QuerySubcategory, f.Subcategory)
	}
	if len(f.Colors) > 0 {
		values.Set(QueryColors, strings.Join(f.Colors, ","))
	}
	if len(f.Sizes) > 0 {
		values.Set(QuerySizes, joinSizes(f.Sizes))
	}
	if f.PriceMin != nil {
		values.Set(QueryPriceMin, f.PriceMin.String())
	}
	if f.PriceMax != nil {
		values.Set(QueryPriceMax, f.PriceMax.String())
	}
	if f.Sort != "" {
		values.Set(QuerySort, string(f.Sort))
	}
	if f.Search != "" {
		values.Set(QuerySearch, f.Search)
	}
	if f.Page > 0 {
		values.Set(QueryPage, strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set(QueryLimit, strconv.Itoa(f.Limit))
	}
	if f.OnlyFeatured {
		values.Set(QueryFeatured, "true")
	}
	return values
}

// WithPage returns a copy of f pointing at page.
func (f ProductFilters) WithPage(page int) ProductFilters {
	f.Page = page
	return f
}

// ResetPage returns a copy of f back on the first page. Callers use it
// whenever category, search or a facet changes.
func (f ProductFilters) ResetPage() ProductFilters {
	return f.WithPage(1)
}

// HasLocalFacets reports whether any facet is re-applied client side.
func (f ProductFilters) HasLocalFacets() bool {
	return f.Subcategory != "" || len(f.Colors) > 0 || len(f.Sizes) > 0 ||
		f.PriceMin != nil || f.PriceMax != nil
}

func joinSizes(sizes []Size) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDecimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func parsePositiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsSize(list []Size, v Size) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

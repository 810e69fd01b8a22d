package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Size is a garment size from the fixed storefront enumeration.
type Size string

const (
	SizeXS Size = "XS"
	SizeP  Size = "P"
	SizeM  Size = "M"
	SizeG  Size = "G"
	SizeGG Size = "GG"
)

// SizeOrder lists every valid size in display order.
var SizeOrder = []Size{SizeXS, SizeP, SizeM, SizeG, SizeGG}

// ParseSize trims and upper-cases value and reports whether it names a valid size.
func ParseSize(value string) (Size, bool) {
	normalized := Size(strings.ToUpper(strings.TrimSpace(value)))
	for _, s := range SizeOrder {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// NormalizeColor trims and lower-cases a color token.
func NormalizeColor(value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", false
	}
	return normalized, true
}

// Static assets bundled with the storefront UI.
const (
	ProductPlaceholderImage = "/assets/product-placeholder.svg"
	CategoryShirtsImage     = "/assets/category-shirts.svg"
	CategoryPantsImage      = "/assets/category-pants.svg"
	CategoryJacketsImage    = "/assets/category-jackets.svg"

	// UncategorizedSlug is reported for products whose backend record has no category.
	UncategorizedSlug = "sem-categoria"

	DefaultCategoryDescription = "Coleção disponível na loja."
)

// CategoryImageFallback returns the bundled image for well-known slugs.
func CategoryImageFallback(slug string) string {
	switch slug {
	case "camisetas":
		return CategoryShirtsImage
	case "calcas":
		return CategoryPantsImage
	case "blusas":
		return CategoryJacketsImage
	default:
		return ProductPlaceholderImage
	}
}

// Category is a browsable product category.
type Category struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Subcategories []string `json:"subcategories"`
}

// ProductImage is one entry of a product gallery.
type ProductImage struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Product is the storefront view of a backend product record.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Subcategory string          `json:"subcategory"`
	Colors      []string        `json:"colors"`
	Sizes       []Size          `json:"sizes"`
	Description string          `json:"description"`
	Images      []ProductImage  `json:"images"`
}

// MarshalJSON writes the price as a JSON number, which is what the web UI reads.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"price"`
	}{product(p), PriceNumber(p.Price)})
}

// HasAnyColor reports whether the product offers at least one of colors.
func (p Product) HasAnyColor(colors []string) bool {
	for _, want := range colors {
		for _, have := range p.Colors {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasAnySize reports whether the product offers at least one of sizes.
func (p Product) HasAnySize(sizes []Size) bool {
	for _, want := range sizes {
		for _, have := range p.Sizes {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Accessory is an add-on that can be bought together with a product.
type Accessory struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func (a Accessory) MarshalJSON() ([]byte, error) {
	type accessory Accessory
	return json.Marshal(struct {
		accessory
		Price json.Number `json:"price"`
	}{accessory(a), PriceNumber(a.Price)})
}

// PriceNumber renders d as an unquoted JSON number.
func PriceNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Pagination is the backend's paging block. It is reported as received.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ClampPage bounds page to [1, TotalPages]. A pagination with no pages
// still has page 1.
func (p Pagination) ClampPage(page int) int {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Range returns the 1-based positions of the first and last item on the
// current page, as shown in "Exibindo X-Y de N itens". Both are 0 when
// there are no items.
func (p Pagination) Range() (first, last int) {
	if p.Total <= 0 || p.Limit <= 0 {
		return 0, 0
	}
	page := p.ClampPage(p.Page)
	first = (page-1)*p.Limit + 1
	last = page * p.Limit
	if last > p.Total {
		last = p.Total
	}
	if first > last {
		return 0, 0
	}
	return first, last
}

// ProductListResponse is one page of catalog results.
type ProductListResponse struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

package catalog

import (
	"fmt"

	"ufscompras/internal/backend"
	"ufscompras/internal/domain"
)

func normalizeCategory(rec backend.CategoryRecord) domain.Category {
	description := domain.DefaultCategoryDescription
	if rec.Description != nil {
		description = *rec.Description
	}

	image := rec.Image
	if image == "" {
		image = domain.CategoryImageFallback(rec.Slug)
	}

	subcategories := rec.Subcategories
	if subcategories == nil {
		subcategories = []string{}
	}

	return domain.Category{
		ID:            rec.ID,
		Slug:          rec.Slug,
		Title:         rec.Name,
		Description:   description,
		Image:         image,
		Subcategories: subcategories,
	}
}

// categorySlug picks the slug reported for a product: the embedded
// category's slug, then its name, then the slug the caller filtered by, then
// the uncategorized sentinel.
func categorySlug(rec backend.ProductRecord, requested string) string {
	if ref := rec.Category; ref != nil {
		if ref.Slug != "" {
			return ref.Slug
		}
		if ref.Name != "" {
			return ref.Name
		}
	}
	if requested != "" {
		return requested
	}
	return domain.UncategorizedSlug
}

func normalizeProduct(rec backend.ProductRecord, requestedSlug string) domain.Product {
	product := domain.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Price:       rec.Price,
		Category:    categorySlug(rec, requestedSlug),
		Subcategory: "",
		Colors:      normalizeColors(rec.Colors),
		Sizes:       normalizeSizes(rec.Sizes),
		Images:      buildImages(rec),
	}
	if rec.Description != nil {
		product.Description = *rec.Description
	}
	if rec.Category != nil {
		product.CategoryID = rec.Category.ID
	}
	return product
}

func normalizeColors(raw []string) []string {
	colors := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, value := range raw {
		color, ok := domain.NormalizeColor(value)
		if !ok || seen[color] {
			continue
		}
		seen[color] = true
		colors = append(colors, color)
	}
	return colors
}

// normalizeSizes keeps the sizes of the fixed enumeration, in display order.
func normalizeSizes(raw []string) []domain.Size {
	present := make(map[domain.Size]bool, len(raw))
	for _, value := range raw {
		if size, ok := domain.ParseSize(value); ok {
			present[size] = true
		}
	}

	sizes := make([]domain.Size, 0, len(present))
	for _, size := range domain.SizeOrder {
		if present[size] {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

func buildImages(rec backend.ProductRecord) []domain.ProductImage {
	if len(rec.Images) == 0 {
		return []domain.ProductImage{{ID: "placeholder", Src: domain.ProductPlaceholderImage, Alt: rec.Name}}
	}

	images := make([]domain.ProductImage, len(rec.Images))
	for i, src := range rec.Images {
		images[i] = domain.ProductImage{
			ID:  fmt.Sprintf("%s-%d", rec.ID, i),
			Src: src,
			Alt: rec.Name,
		}
	}
	return images
}

func normalizeAccessory(rec backend.AccessoryRecord) domain.Accessory {
	accessory := domain.Accessory{
		ID:    rec.ID,
		Name:  rec.Name,
		Price: rec.Price,
		Image: domain.ProductPlaceholderImage,
	}
	if rec.Description != nil {
		accessory.Description = *rec.Description
	}
	if len(rec.Images) > 0 {
		accessory.Image = rec.Images[0]
	}
	return accessory
}

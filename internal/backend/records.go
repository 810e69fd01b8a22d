package backend

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Boundary records mirror the backend's JSON documents. The storefront
// translates them into domain types; admin callers receive them as they are.

type CategoryRecord struct {
	ID            string   `json:"_id"`
	Name          string   `json:"nome"`
	Slug          string   `json:"slug"`
	Description   *string  `json:"descricao,omitempty"`
	Image         string   `json:"image,omitempty"`
	Subcategories []string `json:"subcategorias,omitempty"`
}

// ProductCategoryRef is the category embedded in a product document.
type ProductCategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"nome"`
	Slug string `json:"slug,omitempty"`
}

type ProductRecord struct {
	ID          string              `json:"_id"`
	Name        string              `json:"nome"`
	Price       decimal.Decimal     `json:"preco"`
	Description *string             `json:"descricao,omitempty"`
	Sizes       []string            `json:"tamanhos,omitempty"`
	Colors      []string            `json:"cores,omitempty"`
	Images      []string            `json:"images,omitempty"`
	IsFeatured  bool                `json:"isFeatured,omitempty"`
	Stock       *Count              `json:"estoque,omitempty"`
	Category    *ProductCategoryRef `json:"id_categoria,omitempty"`
}

// PaginationRecord is the backend's paging block.
type PaginationRecord struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ProductListRecord struct {
	Data       []ProductRecord  `json:"data"`
	Pagination PaginationRecord `json:"pagination"`
}

type AccessoryRecord struct {
	ID          string          `json:"_id"`
	Name        string          `json:"nome"`
	Description *string         `json:"descricao,omitempty"`
	Price       decimal.Decimal `json:"preco"`
	Images      []string        `json:"images,omitempty"`
	Active      *bool           `json:"ativo,omitempty"`
}

// LoginUserRecord is the user block of a login response.
type LoginUserRecord struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type LoginRecord struct {
	Token string           `json:"token"`
	User  *LoginUserRecord `json:"user"`
}

// PurchaseRecord is the backend's answer to POST /purchase.
type PurchaseRecord struct {
	Message string `json:"message"`
	Stock   Count  `json:"estoque"`
}

// Count is a stock quantity. The backend sometimes encodes it as 5.0 or "5".
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("invalid stock count %s", data)
	}
	*c = Count(math.Round(f))
	return nil
}

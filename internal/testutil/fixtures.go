package testutil

import (
	"fmt"
	"sync/atomic"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// Backend documents, shaped like the REST backend's JSON.

type CategoryDoc struct {
	ID            string   `json:"_id"`
	Name          string   `json:"nome"`
	Slug          string   `json:"slug"`
	Description   string   `json:"descricao,omitempty"`
	Image         string   `json:"image,omitempty"`
	Subcategories []string `json:"subcategorias,omitempty"`
}

type CategoryRefDoc struct {
	ID   string `json:"_id"`
	Name string `json:"nome"`
	Slug string `json:"slug,omitempty"`
}

type ProductDoc struct {
	ID          string          `json:"_id"`
	Name        string          `json:"nome"`
	Price       float64         `json:"preco"`
	Description string          `json:"descricao,omitempty"`
	Sizes       []string        `json:"tamanhos,omitempty"`
	Colors      []string        `json:"cores,omitempty"`
	Images      []string        `json:"images,omitempty"`
	IsFeatured  bool            `json:"isFeatured,omitempty"`
	Stock       int             `json:"estoque"`
	Category    *CategoryRefDoc `json:"id_categoria,omitempty"`
}

type AccessoryDoc struct {
	ID          string   `json:"_id"`
	Name        string   `json:"nome"`
	Description string   `json:"descricao,omitempty"`
	Price       float64  `json:"preco"`
	Images      []string `json:"images,omitempty"`
	Active      bool     `json:"ativo"`
}

// NewCategoryDoc creates a category document with sensible defaults
func NewCategoryDoc(opts ...func(*CategoryDoc)) CategoryDoc {
	id := nextID("category")
	c := CategoryDoc{
		ID:          id,
		Name:        "Categoria destaque",
		Slug:        "categoria-" + id,
		Description: "Coleção disponível na loja.",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewProductDoc creates a product document with sensible defaults
func NewProductDoc(opts ...func(*ProductDoc)) ProductDoc {
	id := nextID("product")
	p := ProductDoc{
		ID:          id,
		Name:        "Produto destaque",
		Price:       199.9,
		Description: "Descrição completa do produto.",
		Sizes:       []string{"P", "M", "G"},
		Colors:      []string{"preto", "branco"},
		Images:      []string{"https://placehold.co/600x800?text=" + id},
		Stock:       12,
		Category:    &CategoryRefDoc{ID: "cat-camisetas", Name: "Camisetas", Slug: "camisetas"},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewAccessoryDoc creates an accessory document with sensible defaults
func NewAccessoryDoc(opts ...func(*AccessoryDoc)) AccessoryDoc {
	a := AccessoryDoc{
		ID:          nextID("accessory"),
		Name:        "Cinto minimalista",
		Description: "Ideal para complementar o look.",
		Price:       59.9,
		Active:      true,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Standard fixtures shared by the catalog, handler and CLI tests.

func StandardCategories() []CategoryDoc {
	return []CategoryDoc{
		{ID: "cat-camisetas", Name: "Camisetas", Slug: "camisetas"},
		{ID: "cat-calcas", Name: "Calças", Slug: "calcas", Description: "Conforto e versatilidade."},
		{ID: "cat-blusas", Name: "Blusas", Slug: "blusas", Subcategories: []string{"Moletom", "Tech"}},
	}
}

// StandardProducts is a three item catalog: a black/M shirt at 149.90, a
// blue/M pair of jeans at 229.90 and a black jacket only in G at 319.90.
func StandardProducts() []ProductDoc {
	return []ProductDoc{
		{
			ID: "prod-shirt", Name: "Camiseta Minimal", Price: 149.9,
			Colors: []string{"Preto", "branco"}, Sizes: []string{"p", "M", "G"},
			Images:     []string{"https://placehold.co/600x800?text=Camisa"},
			IsFeatured: true, Stock: 10,
			Category: &CategoryRefDoc{ID: "cat-camisetas", Name: "Camisetas", Slug: "camisetas"},
		},
		{
			ID: "prod-jeans", Name: "Calça Jeans Relax", Price: 229.9,
			Colors: []string{"azul"}, Sizes: []string{"P", "M", "G", "XL"},
			Images:     []string{"https://placehold.co/600x800?text=Calca"},
			IsFeatured: true, Stock: 5,
			Category: &CategoryRefDoc{ID: "cat-calcas", Name: "Calças", Slug: "calcas"},
		},
		{
			ID: "prod-jacket", Name: "Jaqueta Tech", Price: 319.9,
			Colors: []string{"preto"}, Sizes: []string{"G"},
			Stock:    3,
			Category: &CategoryRefDoc{ID: "cat-blusas", Name: "Blusas", Slug: "blusas"},
		},
	}
}

func StandardAccessories() []AccessoryDoc {
	return []AccessoryDoc{
		{ID: "acc-bucket", Name: "Bucket Hat", Price: 89.9, Images: []string{"https://placehold.co/200?text=Bucket"}, Active: true},
		{ID: "acc-cinto", Name: "Cinto Minimal", Description: "Couro sintético.", Price: 59.9, Active: true},
	}
}

// Credentials accepted by the fake backend.
const (
	AdminEmail       = "admin@ufscompras.com"
	AdminPassword    = "admin123"
	AdminToken       = "token-admin"
	CustomerEmail    = "cliente@ufscompras.com"
	CustomerPassword = "cliente123"
	CustomerToken    = "token-user"
)

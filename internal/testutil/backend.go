package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// FakeBackend is an in-process stand-in for the UFSCompras REST backend. It
// serves the standard fixtures under /api and counts requests per route.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	categories  []CategoryDoc
	products    []ProductDoc
	accessories []AccessoryDoc
	overrides   map[string]http.HandlerFunc
	requests    map[string]int
	lastQuery   map[string]url.Values
	lastBody    map[string][]byte
	lastHeader  map[string]http.Header
	delay       time.Duration
}

// NewFakeBackend starts a fake backend loaded with the standard fixtures and
// closes it when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		categories:  StandardCategories(),
		products:    StandardProducts(),
		accessories: StandardAccessories(),
		overrides:   make(map[string]http.HandlerFunc),
		requests:    make(map[string]int),
		lastQuery:   make(map[string]url.Values),
		lastBody:    make(map[string][]byte),
		lastHeader:  make(map[string]http.Header),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", f.handleCategories)
		r.Get("/products", f.handleProducts)
		r.Get("/products/featured", f.handleFeatured)
		r.Get("/products/{id}", f.handleProduct)
		r.Get("/accessories", f.handleAccessories)
		r.Post("/auth/login", f.handleLogin)
		r.Post("/purchase", f.handlePurchase)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL, including the /api prefix.
func (f *FakeBackend) URL() string {
	return f.Server.URL + "/api"
}

// SetCategories replaces the category fixtures.
func (f *FakeBackend) SetCategories(categories []CategoryDoc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = categories
}

// SetProducts replaces the product fixtures.
func (f *FakeBackend) SetProducts(products []ProductDoc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
}

// SetCategoryDelay holds GET /categories open for d before answering.
func (f *FakeBackend) SetCategoryDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Handle overrides a route, e.g. Handle("GET", "/api/categories", h).
func (f *FakeBackend) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[method+" "+path] = h
}

// Requests returns how many requests reached method and path.
func (f *FakeBackend) Requests(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[method+" "+path]
}

// TotalRequests returns how many requests reached the backend at all.
func (f *FakeBackend) TotalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.requests {
		total += n
	}
	return total
}

// LastQuery returns the query string of the latest request to method and path.
func (f *FakeBackend) LastQuery(method, path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery[method+" "+path]
}

// LastBody returns the body of the latest request to method and path.
func (f *FakeBackend) LastBody(method, path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody[method+" "+path]
}

// LastHeader returns the headers of the latest request to method and path.
func (f *FakeBackend) LastHeader(method, path string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastHeader[method+" "+path]
}

func (f *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests[key]++
		f.lastQuery[key] = r.URL.Query()
		f.lastBody[key] = body
		f.lastHeader[key] = r.Header.Clone()
		override := f.overrides[key]
		f.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeBackend) handleCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	f.mu.Lock()
	categories := f.categories
	f.mu.Unlock()

	WriteJSON(w, http.StatusOK, categories)
}

func (f *FakeBackend) handleProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	all := append([]ProductDoc(nil), f.products...)
	f.mu.Unlock()

	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		filtered := all[:0]
		for _, p := range all {
			if p.Category != nil && p.Category.ID == categoryID {
				filtered = append(filtered, p)
			}
		}
		all = filtered
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = len(all)
	}

	total := len(all)
	totalPages := 1
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"data": all[start:end],
		"pagination": map[string]int{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

func (f *FakeBackend) handleFeatured(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	featured := make([]ProductDoc, 0)
	for _, p := range f.products {
		if p.IsFeatured && (limit < 1 || len(featured) < limit) {
			featured = append(featured, p)
		}
	}
	WriteJSON(w, http.StatusOK, featured)
}

func (f *FakeBackend) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.ID == id {
			WriteJSON(w, http.StatusOK, p)
			return
		}
	}
	WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Produto não encontrado"})
}

func (f *FakeBackend) handleAccessories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	WriteJSON(w, http.StatusOK, f.accessories)
}

func (f *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch {
	case body.Email == AdminEmail && body.Senha == AdminPassword:
		WriteJSON(w, http.StatusOK, map[string]any{
			"token": AdminToken,
			"user":  map[string]any{"id": "admin-1", "nome": "Admin", "email": body.Email, "isAdmin": true},
		})
	case body.Email == CustomerEmail && body.Senha == CustomerPassword:
		WriteJSON(w, http.StatusOK, map[string]any{
			"token": CustomerToken,
			"user":  map[string]any{"id": "user-1", "nome": "Cliente", "email": body.Email, "isAdmin": false},
		})
	default:
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
	}
}

func (f *FakeBackend) handlePurchase(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if auth != "Bearer "+AdminToken && auth != "Bearer "+CustomerToken {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.ProductID == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Produto é obrigatório"})
		return
	}
	if body.Quantity < 1 {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Quantidade inválida"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.products {
		if f.products[i].ID != body.ProductID {
			continue
		}
		if f.products[i].Stock < body.Quantity {
			WriteJSON(w, http.StatusConflict, map[string]string{"message": "Estoque insuficiente"})
			return
		}
		f.products[i].Stock -= body.Quantity
		WriteJSON(w, http.StatusOK, map[string]any{
			"message": "Compra confirmada",
			"estoque": f.products[i].Stock,
		})
		return
	}
	WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Produto não encontrado"})
}

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

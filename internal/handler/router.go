package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ufscompras/internal/middleware"
)

// Dependencies are the services behind the storefront routes. Nil limiters
// and a nil OpenAPI config switch those layers off.
type Dependencies struct {
	Catalog        Catalog
	Auth           Authenticator
	Purchaser      Purchaser
	Checks         map[string]ReadinessCheck
	AllowedOrigins []string

	OpenAPI         *middleware.OpenAPIValidatorConfig
	LoginLimiter    *middleware.RateLimiter
	PurchaseLimiter *middleware.RateLimiter
}

// NewRouter builds the storefront BFF router.
func NewRouter(deps Dependencies) chi.Router {
	catalogHandler := NewCatalogHandler(deps.Catalog)
	authHandler := NewAuthHandler(deps.Auth)
	purchaseHandler := NewPurchaseHandler(deps.Purchaser)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Metrics())
	if deps.OpenAPI != nil {
		r.Use(middleware.OpenAPIValidator(deps.OpenAPI))
	}

	r.Get("/health", Health)
	r.Get("/health/ready", Ready(deps.Checks))
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, MessageNotFound)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/categories/{slug}", catalogHandler.GetCategory)
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/featured", catalogHandler.ListFeatured)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/accessories", catalogHandler.ListAccessories)

		r.Group(func(r chi.Router) {
			if deps.LoginLimiter != nil {
				r.Use(deps.LoginLimiter.Middleware())
			}
			r.Post("/auth/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer())
			if deps.PurchaseLimiter != nil {
				r.Use(deps.PurchaseLimiter.Middleware())
			}
			r.Post("/purchase", purchaseHandler.Purchase)
		})
	})

	return r
}

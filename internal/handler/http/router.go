package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/quote"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/variation"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/health"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/middleware"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Catalog       Catalog
	Registry      *cart.Registry
	Quotes        *quote.Service
	Events        CartEvents
	Classifier    *variation.Classifier
	HealthHandler *health.Handler
	Logger        *slog.Logger

	Environment        string
	CORSAllowedOrigins []string
	CatalogCacheMaxAge int
	PprofAllowedCIDRs  []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, cfg.Logger)

	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Classifier, cfg.Logger)
	cartHandler := NewCartHandler(cfg.Registry, cfg.Catalog, cfg.Events, cfg.Logger)
	quoteHandler := NewQuoteHandler(cfg.Quotes, cfg.Registry, cfg.Logger)

	// Catalog reads are safe to cache at the edge; cart and quote are not.
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogCacheMaxAge))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{idOrSlug}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/brands", catalogHandler.ListBrands)
		})

		r.With(ContentTypeJSON).Post("/products/{idOrSlug}/options", catalogHandler.SelectOptions)

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(SessionIDFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Put("/items/{productId}/{variationId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Delete("/items/{productId}/{variationId}", cartHandler.RemoveItem)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.With(SessionIDFromHeader).Post("/", quoteHandler.SubmitQuote)
			r.Get("/", quoteHandler.ListQuotes)
			r.Get("/{id}", quoteHandler.GetQuote)
		})
	})

	return r
}

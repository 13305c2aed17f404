package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/api/handler"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/cache"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/placeindex"
)

// NewRouter creates the Chi router with all middleware and routes. db may be
// nil when the API serves from the dataset file without a database.
func NewRouter(places *placeindex.Holder, appCache *cache.Cache, db handler.HealthChecker, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(places, appCache, db, cfg)

	// --- Routes ---
	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/places", h.SearchPlaces)
		r.Get("/places/postcode/{postcode}", h.GetPlacesByPostcode)
		r.Get("/places/nearest", h.GetNearestPlace)
		r.Get("/departments", h.GetDepartments)
		r.Get("/dataset", h.GetDataset)
	})

	return r
}

// Package handler provides HTTP handlers for all API endpoints.
// Place handlers read the current placeindex snapshot and cache the encoded
// response bytes; nothing here touches the dataset file directly.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/api/respond"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/cache"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/placeindex"
)

// HealthChecker is satisfied by *db.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	places *placeindex.Holder
	cache  *cache.Cache
	db     HealthChecker
	cfg    *config.Config
}

// New creates a Handler with shared dependencies. db may be nil.
func New(places *placeindex.Holder, c *cache.Cache, db HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		places: places,
		cache:  c,
		db:     db,
		cfg:    cfg,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, the place source and the number of indexed places.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "French Places API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"source":  h.cfg.PlacesSource,
		"places":  h.places.Load().Len(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"places":    h.places.Load().Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports "not_configured" when the API runs without a database.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, hits, misses, flushes).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveCached writes the cached entry for key, or builds, caches and writes
// it. When build fails it has already written the error response and
// returns false.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() ([]byte, bool)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, ok := build()
	if !ok {
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

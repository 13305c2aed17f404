// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/geodata.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// DefaultDatasetPath is where the frontend reads the city lookup table.
	DefaultDatasetPath = "src/main/webapp/app/shared/data/french-cities.json"

	// DefaultGeoAPIURL is the public commune registry (geo.api.gouv.fr).
	DefaultGeoAPIURL = "https://geo.api.gouv.fr"
)

// Place sources for the lookup API.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// --------------------------------------------------------------------------
// Table names, matching db.EnsureSchema
// --------------------------------------------------------------------------

const (
	PlacesTable      = "places"
	AutocompleteView = "mv_place_autocomplete"
	PublishChannel   = "places_published"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Dataset
	DatasetPath string

	// Commune registry
	GeoAPIURL            string
	GeoAPITimeout        time.Duration
	GeoAPIRequestsPerMin int
	GeocodeWorkers       int

	// Database (optional: only publish and the postgres source need it)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost        string
	APIPort        int
	Environment    string // development, staging, production
	PlacesSource   string // file, postgres
	ReloadInterval time.Duration

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatasetPath: envOr("GEODATA_FILE", DefaultDatasetPath),

		GeoAPIURL:            strings.TrimRight(envOr("GEO_API_URL", DefaultGeoAPIURL), "/"),
		GeoAPITimeout:        time.Duration(envInt("GEO_API_TIMEOUT_SECONDS", 120)) * time.Second,
		GeoAPIRequestsPerMin: envInt("GEO_API_REQUESTS_PER_MINUTE", 600),
		GeocodeWorkers:       envInt("GEOCODE_WORKERS", 4),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:        envOr("API_HOST", "0.0.0.0"),
		APIPort:        envInt("API_PORT", envInt("PORT", 8080)),
		Environment:    envOr("ENVIRONMENT", "development"),
		PlacesSource:   strings.ToLower(envOr("PLACES_SOURCE", SourceFile)),
		ReloadInterval: time.Duration(envInt("RELOAD_INTERVAL_SECONDS", 60)) * time.Second,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:8080",
			"http://localhost:9000",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),
	}

	if cfg.PlacesSource != SourceFile && cfg.PlacesSource != SourcePostgres {
		return nil, fmt.Errorf("PLACES_SOURCE must be %q or %q, got %q", SourceFile, SourcePostgres, cfg.PlacesSource)
	}
	if cfg.PlacesSource == SourcePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set when PLACES_SOURCE=%s", SourcePostgres)
	}
	if cfg.GeocodeWorkers < 1 {
		cfg.GeocodeWorkers = 1
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether a Postgres URL is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

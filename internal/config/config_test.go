package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GEODATA_FILE", "GEO_API_URL", "PLACES_SOURCE", "DATABASE_URL", "API_PORT", "PORT", "GEOCODE_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultDatasetPath, cfg.DatasetPath)
	assert.Equal(t, DefaultGeoAPIURL, cfg.GeoAPIURL)
	assert.Equal(t, 120*time.Second, cfg.GeoAPITimeout)
	assert.Equal(t, SourceFile, cfg.PlacesSource)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 4, cfg.GeocodeWorkers)
	assert.False(t, cfg.HasDatabase())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEODATA_FILE", "/tmp/cities.json")
	t.Setenv("GEO_API_URL", "http://localhost:9999/")
	t.Setenv("API_PORT", "")
	t.Setenv("PORT", "3000")
	t.Setenv("GEOCODE_WORKERS", "0")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cities.json", cfg.DatasetPath)
	assert.Equal(t, "http://localhost:9999", cfg.GeoAPIURL)
	assert.Equal(t, 3000, cfg.APIPort)
	assert.Equal(t, 1, cfg.GeocodeWorkers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.RateLimitEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestLoadPlacesSource(t *testing.T) {
	t.Setenv("PLACES_SOURCE", "redis")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PLACES_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/places")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HasDatabase())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "nope")
	assert.Equal(t, 7, envInt("X_INT", 7))
	t.Setenv("X_BOOL", "maybe")
	assert.True(t, envBool("X_BOOL", true))
	t.Setenv("X_LIST", " , ")
	assert.Equal(t, []string{"d"}, envList("X_LIST", []string{"d"}))
}

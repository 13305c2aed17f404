// Command api is the French places lookup server.
//
// Usage:
//
//	places-api
//	PLACES_SOURCE=postgres DATABASE_URL=postgres://... places-api

// @title French Places API
// @version 1.0.0
// @description Read-only lookup over the French cities, arrondissements and departments dataset.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @contact.name Immoxperts
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/api"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/api/handler"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/cache"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/dataset"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/db"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/listener"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/logging"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/maintenance"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/placeindex"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/store"

	_ "github.com/apeiron-tech/Immoxperts-sub001/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Database is optional in file mode; it only backs /health/db then.
	var pool *db.Pool
	var dbCheck handler.HealthChecker
	if cfg.HasDatabase() {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		dbCheck = pool
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	}

	load := func(ctx context.Context) ([]place.Record, error) {
		if cfg.PlacesSource == config.SourcePostgres {
			return store.LoadPlaces(ctx, pool.Pool)
		}
		return dataset.Load(cfg.DatasetPath)
	}

	records, err := load(ctx)
	if err != nil {
		logger.Error("Failed to load places", "source", cfg.PlacesSource, "error", err)
		os.Exit(1)
	}
	holder := placeindex.NewHolder(placeindex.Build(records))
	logger.Info("Place index built",
		"source", cfg.PlacesSource,
		"places", len(records),
		"missing_coordinates", place.CountMissingCoordinates(records))

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	reload := func(ctx context.Context) error {
		records, err := load(ctx)
		if err != nil {
			return err
		}
		holder.Store(placeindex.Build(records))
		appCache.Flush()
		logger.Info("Place index swapped", "places", len(records))
		return nil
	}

	switch cfg.PlacesSource {
	case config.SourcePostgres:
		go listener.Start(ctx, cfg.DatabaseURL, reload, logger)
	default:
		mcfg := maintenance.DefaultConfig()
		mcfg.ReloadInterval = cfg.ReloadInterval
		go maintenance.Start(ctx, cfg.DatasetPath, reload, mcfg, logger)
	}

	router := api.NewRouter(holder, appCache, dbCheck, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting French Places API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

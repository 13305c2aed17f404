// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Schema must exist before statements referencing it can be prepared.
	if err := bootstrapSchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// bootstrapSchema runs EnsureSchema over a short-lived dedicated connection.
func bootstrapSchema(ctx context.Context, dbURL string) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())
	return EnsureSchema(ctx, conn)
}

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the places table, its indexes and the autocomplete
// materialized view when they do not exist yet.
func EnsureSchema(ctx context.Context, db Execer) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + config.PlacesTable + ` (
			name        TEXT NOT NULL,
			postcode    CHAR(5) NOT NULL,
			department  TEXT NOT NULL,
			lat         DOUBLE PRECISION,
			lon         DOUBLE PRECISION,
			type        TEXT NOT NULL CHECK (type IN ('city', 'arrondissement', 'department')),
			name_key    TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (name, postcode)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_places_name_key ON ` + config.PlacesTable + ` (name_key text_pattern_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_places_postcode ON ` + config.PlacesTable + ` (postcode)`,
		`CREATE MATERIALIZED VIEW IF NOT EXISTS ` + config.AutocompleteView + ` AS
			SELECT name, postcode, department, lat, lon, type, name_key
			FROM ` + config.PlacesTable + `
			WHERE lat IS NOT NULL AND lon IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mv_place_autocomplete_pk ON ` + config.AutocompleteView + ` (name, postcode)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// registerPreparedStatements registers all statements the API and publish
// layers use.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Places
		"places_all":   "SELECT name, postcode, department, lat, lon, type FROM " + config.PlacesTable + " ORDER BY name COLLATE \"C\", postcode",
		"places_count": "SELECT COUNT(*) FROM " + config.PlacesTable,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

// Package store mirrors the place dataset into Postgres for consumers that
// query the database instead of the static JSON file.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// PublishResult tracks counts from a Publish run.
type PublishResult struct {
	Upserted int
	Deleted  int64
	Duration time.Duration
}

// Summary returns a human-readable summary of the publish run.
func (r PublishResult) Summary() string {
	return fmt.Sprintf("upserted=%d deleted=%d dur=%s",
		r.Upserted, r.Deleted, r.Duration.Round(time.Millisecond))
}

const upsertPlaceSQL = `
	INSERT INTO ` + config.PlacesTable + ` (
		name, postcode, department, lat, lon, type, name_key
	) VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (name, postcode) DO UPDATE SET
		department = EXCLUDED.department,
		lat = COALESCE(EXCLUDED.lat, ` + config.PlacesTable + `.lat),
		lon = COALESCE(EXCLUDED.lon, ` + config.PlacesTable + `.lon),
		type = EXCLUDED.type,
		name_key = EXCLUDED.name_key,
		updated_at = NOW()`

const deleteStaleSQL = `
	DELETE FROM ` + config.PlacesTable + ` p
	WHERE NOT EXISTS (
		SELECT 1 FROM unnest($1::text[], $2::text[]) AS k(name, postcode)
		WHERE k.name = p.name AND k.postcode = p.postcode::text
	)`

// Publish replaces the contents of the places table with records in one
// transaction and notifies listeners on the publish channel after commit.
func Publish(ctx context.Context, pool *pgxpool.Pool, records []place.Record) (PublishResult, error) {
	start := time.Now()
	var result PublishResult

	tx, err := pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	names := make([]string, len(records))
	postcodes := make([]string, len(records))
	for i, r := range records {
		batch.Queue(upsertPlaceSQL,
			r.Name, r.Postcode, r.Department, r.Lat, r.Lon, string(r.Type),
			place.NormalizeName(r.Name),
		)
		names[i] = r.Name
		postcodes[i] = r.Postcode
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return result, fmt.Errorf("upsert %s %s: %w", records[i].Name, records[i].Postcode, err)
		}
		result.Upserted++
	}
	if err := br.Close(); err != nil {
		return result, fmt.Errorf("close batch: %w", err)
	}

	tag, err := tx.Exec(ctx, deleteStaleSQL, names, postcodes)
	if err != nil {
		return result, fmt.Errorf("delete stale places: %w", err)
	}
	result.Deleted = tag.RowsAffected()

	// NOTIFY inside the transaction is delivered on commit.
	payload := fmt.Sprintf(`{"count":%d,"ts":%d}`, len(records), time.Now().Unix())
	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", config.PublishChannel, payload); err != nil {
		return result, fmt.Errorf("notify: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// LoadPlaces reads every place from the table, sorted by (name, postcode).
func LoadPlaces(ctx context.Context, pool *pgxpool.Pool) ([]place.Record, error) {
	rows, err := pool.Query(ctx, "places_all")
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var records []place.Record
	for rows.Next() {
		var (
			name, postcode, dept, typ string
			lat, lon                  *float64
		)
		if err := rows.Scan(&name, &postcode, &dept, &lat, &lon, &typ); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		r, err := place.New(name, postcode, dept, lat, lon, place.Type(typ))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return records, nil
}

// CountPlaces returns the number of rows in the places table.
func CountPlaces(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	if err := pool.QueryRow(ctx, "places_count").Scan(&n); err != nil {
		return 0, fmt.Errorf("count places: %w", err)
	}
	return n, nil
}

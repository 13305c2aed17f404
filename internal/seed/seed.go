// Package seed runs the dataset commands end to end: load the dataset file,
// apply pipeline stages, and store the result. Each command returns a
// pipeline.Summary; the caller logs it.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/dataset"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/geocode"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/maintenance"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/pipeline"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/store"
)

// FetchFromOfficialSource rebuilds the dataset from the registry. When the
// file already exists its records are merged first so coordinates resolved
// earlier survive, then the arrondissement table is re-applied. Nothing is
// written unless the fetch succeeds with at least one record.
func FetchFromOfficialSource(ctx context.Context, path string, src pipeline.CommuneSource, logger *slog.Logger) (pipeline.Summary, error) {
	var sum pipeline.Summary

	var previous []place.Record
	if dataset.Exists(path) {
		recs, err := dataset.Load(path)
		if err != nil {
			return sum, fmt.Errorf("load previous dataset: %w", err)
		}
		previous = recs
		sum.Before = len(recs)
		logger.Info("Loaded previous dataset", "file", path, "records", len(recs))
	}

	logger.Info("Phase 1/3: Fetching communes...")
	fresh, skipped, err := pipeline.Fetch(ctx, src, logger)
	sum.Skipped = skipped
	if err != nil {
		return sum, err
	}
	sum.Fetched = len(fresh)

	records := fresh
	if previous != nil {
		logger.Info("Phase 2/3: Merging with previous dataset...")
		var stats pipeline.MergeStats
		records, stats = pipeline.MergeWithStats(previous, fresh)
		sum.Merged = stats.Kept
		logger.Info("Merged with previous dataset",
			"kept", stats.Kept, "replaced", stats.Replaced,
			"appended", stats.Appended, "carried", stats.Carried)
	}

	logger.Info("Phase 3/3: Applying arrondissements...")
	records, sum.Purged = pipeline.EnrichArrondissements(records)
	sum.Added = place.CountArrondissements(records)

	if err := write(path, records, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// AddArrondissements replaces every arrondissement row with the reference
// table.
func AddArrondissements(path string, logger *slog.Logger) (pipeline.Summary, error) {
	records, sum, err := load(path)
	if err != nil {
		return sum, err
	}

	records, sum.Purged = pipeline.EnrichArrondissements(records)
	sum.Added = place.CountArrondissements(records)
	logger.Info("Arrondissements replaced", "purged", sum.Purged, "added", sum.Added)

	if err := write(path, records, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// AddDepartments appends the departments missing from the dataset. When all
// of them are present the file is not rewritten.
func AddDepartments(path string, logger *slog.Logger) (pipeline.Summary, error) {
	records, sum, err := load(path)
	if err != nil {
		return sum, err
	}

	if missing := pipeline.MissingDepartments(records); len(missing) == 0 {
		logger.Info("All departments already present, nothing to do")
		sum.Finish(records)
		return sum, nil
	}

	records, added := pipeline.EnrichDepartments(records)
	sum.Added = len(added)
	for _, d := range added {
		logger.Debug("Department added", "name", d.Name, "postcode", d.Postcode)
	}
	logger.Info("Departments added", "count", sum.Added)

	if err := write(path, records, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// RemoveDuplicates keeps one record per normalized name. When there is no
// duplicate the file is not rewritten.
func RemoveDuplicates(path string, logger *slog.Logger) (pipeline.Summary, error) {
	records, sum, err := load(path)
	if err != nil {
		return sum, err
	}

	if pipeline.DuplicateGroups(records) == 0 {
		logger.Info("No duplicates found, nothing to do")
		sum.Finish(records)
		return sum, nil
	}

	result := pipeline.Deduplicate(records)
	sum.Removed = len(result.Removed)
	for _, rm := range result.Removed {
		logger.Info("Duplicate removed",
			"name", rm.Name, "removed_postcode", rm.RemovedPostcode, "kept_postcode", rm.KeptPostcode)
	}
	logger.Info("Duplicates resolved", "groups", result.Groups, "removed", sum.Removed)

	if err := write(path, result.Records, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// Geocode back-fills coordinates through the registry. The file is rewritten
// only when at least one record was resolved.
func Geocode(ctx context.Context, path string, lookup geocode.Lookup, opts geocode.Options, logger *slog.Logger) (pipeline.Summary, geocode.Result, error) {
	records, sum, err := load(path)
	if err != nil {
		return sum, geocode.Result{}, err
	}

	records, result := geocode.Resolve(ctx, lookup, records, opts, logger)
	for _, e := range result.Errors {
		sum.AddErrorf("%s", e)
	}
	if err := ctx.Err(); err != nil {
		return sum, result, fmt.Errorf("geocode interrupted: %w", err)
	}

	if result.Resolved == 0 {
		sum.Finish(records)
		return sum, result, nil
	}
	if err := write(path, records, &sum); err != nil {
		return sum, result, err
	}
	return sum, result, nil
}

// Publish mirrors the dataset into Postgres and refreshes the autocomplete
// view. A refresh failure is logged but does not fail the publish, which has
// already committed.
func Publish(ctx context.Context, path string, pool *pgxpool.Pool, logger *slog.Logger) (store.PublishResult, error) {
	records, _, err := load(path)
	if err != nil {
		return store.PublishResult{}, err
	}

	result, err := store.Publish(ctx, pool, records)
	if err != nil {
		return result, fmt.Errorf("publish: %w", err)
	}
	if err := maintenance.RefreshMaterializedViews(ctx, pool, logger); err != nil {
		logger.Warn("Published without refreshing views", "error", err)
	}
	if n, err := store.CountPlaces(ctx, pool); err == nil {
		logger.Info("Places table updated", "rows", n, "dataset", len(records))
	}
	return result, nil
}

func load(path string) ([]place.Record, pipeline.Summary, error) {
	var sum pipeline.Summary
	records, err := dataset.Load(path)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return nil, sum, fmt.Errorf("%w (run fetch-from-official-source first)", err)
		}
		return nil, sum, err
	}
	sum.Before = len(records)
	return records, sum, nil
}

func write(path string, records []place.Record, sum *pipeline.Summary) error {
	if err := dataset.Store(path, records); err != nil {
		return fmt.Errorf("store dataset: %w", err)
	}
	sum.Written = true
	sum.Finish(records)
	return nil
}

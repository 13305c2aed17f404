// Package pipeline implements the dataset curation stages: fetch, enrich,
// merge and deduplicate. Every stage takes a slice of records and returns a
// new one; none of them touches the dataset file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/geoapi"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/reference"
)

// ErrEmptyFetch is returned when the registry answers with no usable record.
var ErrEmptyFetch = errors.New("registry returned no communes")

// CommuneSource is the part of the registry client the fetcher needs.
type CommuneSource interface {
	FetchCommunes(ctx context.Context) ([]geoapi.Commune, error)
}

// Fetch retrieves the national commune list and flattens it into city
// records, one per commune and postal code. Any source failure, or an empty
// result, is returned as an error so callers never persist a partial dataset.
func Fetch(ctx context.Context, src CommuneSource, logger *slog.Logger) (records []place.Record, skipped int, err error) {
	communes, err := src.FetchCommunes(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch communes: %w", err)
	}

	records, skipped = Flatten(communes)
	if skipped > 0 {
		logger.Warn("Skipped invalid registry entries", "count", skipped)
	}
	if len(records) == 0 {
		return nil, skipped, ErrEmptyFetch
	}
	logger.Info("Flattened communes", "communes", len(communes), "records", len(records))
	return records, skipped, nil
}

// Flatten fans every commune out to one city record per postal code. The
// department comes from the registry, or from the postcode prefix table when
// the registry has none. Entries that fail validation are counted in skipped.
func Flatten(communes []geoapi.Commune) (records []place.Record, skipped int) {
	for _, c := range communes {
		var lat, lon *float64
		if p, ok := c.Centroid(); ok {
			la, lo := p.Lat(), p.Lon()
			lat, lon = &la, &lo
		}
		for _, postcode := range c.Postcodes {
			dept := c.DepartmentName()
			if dept == "" {
				dept = reference.DepartmentForPostcode(postcode)
			}
			r, err := place.New(c.Name, postcode, dept, lat, lon, place.TypeCity)
			if err != nil {
				skipped++
				continue
			}
			records = append(records, r)
		}
	}
	return records, skipped
}

// Package geocode back-fills centroids for records the registry fetch left
// without coordinates, by looking each postal code up in the registry again.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/geoapi"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// Lookup is the registry call the geocoder needs.
type Lookup interface {
	CommunesByPostcode(ctx context.Context, postcode string) ([]geoapi.Commune, error)
}

// Options controls a Resolve run.
type Options struct {
	Workers int
	// Max caps the number of records attempted; zero means no cap.
	Max int
}

// Result tracks the outcome of a Resolve run.
type Result struct {
	Pending    int
	Attempted  int
	Resolved   int
	Unresolved int
	Duration   time.Duration
	Errors     []string
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("pending=%d attempted=%d resolved=%d unresolved=%d errors=%d dur=%s",
		r.Pending, r.Attempted, r.Resolved, r.Unresolved, len(r.Errors),
		r.Duration.Round(time.Millisecond))
}

type job struct {
	idx    int
	record place.Record
}

type outcome struct {
	idx    int
	record place.Record
	ok     bool
	err    error
}

// Resolve returns a copy of records where every city or arrondissement with
// null coordinates has been looked up by postal code. Lookup failures are
// collected in Result.Errors and leave the record unchanged. Department rows
// are skipped: their synthetic postcodes do not map to a commune.
func Resolve(ctx context.Context, lookup Lookup, records []place.Record, opts Options, logger *slog.Logger) ([]place.Record, Result) {
	start := time.Now()
	out := place.Clone(records)
	var result Result

	var pending []job
	for i, r := range out {
		if r.HasCoordinates() || r.Type == place.TypeDepartment {
			continue
		}
		pending = append(pending, job{idx: i, record: r})
	}
	result.Pending = len(pending)
	if opts.Max > 0 && len(pending) > opts.Max {
		pending = pending[:opts.Max]
	}
	result.Attempted = len(pending)
	if len(pending) == 0 {
		logger.Info("No records without coordinates")
		result.Duration = time.Since(start)
		return out, result
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pending) {
		workers = len(pending)
	}
	logger.Info("Geocoding records", "count", len(pending), "workers", workers)

	ch := make(chan job, len(pending))
	for _, j := range pending {
		ch <- j
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	outcomes := make([]outcome, 0, len(pending))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				if ctx.Err() != nil {
					return
				}
				resolved, ok, err := resolveOne(ctx, lookup, j.record)
				mu.Lock()
				outcomes = append(outcomes, outcome{idx: j.idx, record: resolved, ok: ok, err: err})
				n := len(outcomes)
				mu.Unlock()
				if n%100 == 0 {
					logger.Info("Geocode progress", "processed", n, "of", len(pending))
				}
			}
		}()
	}
	wg.Wait()

	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Unresolved++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %s: %v", out[o.idx].Name, out[o.idx].Postcode, o.err))
		case o.ok:
			out[o.idx] = o.record
			result.Resolved++
		default:
			result.Unresolved++
		}
	}
	result.Duration = time.Since(start)
	logger.Info("Geocode complete", "summary", result.Summary())
	return out, result
}

// resolveOne looks a record up by postcode and picks the commune with the
// same normalized name, or the only commune when the postcode has just one.
func resolveOne(ctx context.Context, lookup Lookup, r place.Record) (place.Record, bool, error) {
	communes, err := lookup.CommunesByPostcode(ctx, r.Postcode)
	if err != nil {
		return r, false, err
	}

	want := place.NormalizeName(r.Name)
	var match *geoapi.Commune
	for i := range communes {
		if place.NormalizeName(communes[i].Name) == want {
			match = &communes[i]
			break
		}
	}
	if match == nil && len(communes) == 1 {
		match = &communes[0]
	}
	if match == nil {
		return r, false, nil
	}

	p, ok := match.Centroid()
	if !ok {
		return r, false, nil
	}
	return r.WithCoordinates(p.Lat(), p.Lon()), true, nil
}

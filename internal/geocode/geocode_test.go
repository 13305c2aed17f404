package geocode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/geoapi"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

type fakeLookup struct {
	mu    sync.Mutex
	calls []string
	byPC  map[string][]geoapi.Commune
	fail  map[string]bool
}

func (f *fakeLookup) CommunesByPostcode(ctx context.Context, postcode string) ([]geoapi.Commune, error) {
	f.mu.Lock()
	f.calls = append(f.calls, postcode)
	f.mu.Unlock()
	if f.fail[postcode] {
		return nil, errors.New("registry unavailable")
	}
	return f.byPC[postcode], nil
}

func commune(name string, lon, lat float64) geoapi.Commune {
	return geoapi.Commune{Name: name, Centre: geojson.NewGeometry(orb.Point{lon, lat})}
}

func unresolved(t *testing.T, name, postcode string, typ place.Type) place.Record {
	t.Helper()
	r, err := place.New(name, postcode, "Dept", nil, nil, typ)
	require.NoError(t, err)
	return r
}

func TestResolve(t *testing.T) {
	lookup := &fakeLookup{
		byPC: map[string][]geoapi.Commune{
			"59000": {commune("Lille", 3.06, 50.63)},
			"01100": {commune("Arbent", 5.68, 46.29), commune("Oyonnax", 5.65, 46.25)},
			"01200": {commune("Bellegarde", 5.82, 46.10), commune("Châtillon", 5.84, 46.12)},
		},
		fail: map[string]bool{"99999": true},
	}
	records := []place.Record{
		unresolved(t, "Lille", "59000", place.TypeCity),
		unresolved(t, "OYONNAX", "01100", place.TypeCity),
		unresolved(t, "Nowhere", "01200", place.TypeCity),
		unresolved(t, "Broken", "99999", place.TypeCity),
		unresolved(t, "Ain", "01000", place.TypeDepartment),
		place.MustNew("Lyon", "69001", "Rhône", 45.76, 4.83, place.TypeCity),
	}

	out, res := Resolve(context.Background(), lookup, records, Options{Workers: 3},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Len(t, out, len(records))
	assert.Equal(t, 4, res.Pending)
	assert.Equal(t, 4, res.Attempted)
	assert.Equal(t, 2, res.Resolved)
	assert.Equal(t, 2, res.Unresolved)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Broken 99999")

	assert.Equal(t, 50.63, *out[0].Lat, "single commune is taken")
	assert.Equal(t, 46.25, *out[1].Lat, "name match picks among several")
	assert.False(t, out[2].HasCoordinates(), "ambiguous postcode stays null")
	assert.False(t, out[4].HasCoordinates(), "departments are skipped")
	assert.False(t, records[0].HasCoordinates(), "input is not mutated")
	assert.NotContains(t, lookup.calls, "01000")
	assert.NotContains(t, lookup.calls, "69001")
}

func TestResolveMax(t *testing.T) {
	lookup := &fakeLookup{}
	records := []place.Record{
		unresolved(t, "A", "10000", place.TypeCity),
		unresolved(t, "B", "20000", place.TypeCity),
		unresolved(t, "C", "30000", place.TypeCity),
	}
	_, res := Resolve(context.Background(), lookup, records, Options{Workers: 8, Max: 2},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 3, res.Pending)
	assert.Equal(t, 2, res.Attempted)
	assert.Len(t, lookup.calls, 2)
	assert.Contains(t, res.Summary(), "pending=3 attempted=2")
}

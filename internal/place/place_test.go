package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		postcode string
		lat, lon *float64
		typ      Type
		wantErr  bool
	}{
		{name: "valid city", in: "Lyon", postcode: "69001", lat: ptr(45.7), lon: ptr(4.8), typ: TypeCity},
		{name: "null coordinates", in: "Lyon", postcode: "69001", typ: TypeCity},
		{name: "trims name", in: "  Lyon ", postcode: " 69001", typ: TypeCity},
		{name: "empty name", in: "   ", postcode: "69001", typ: TypeCity, wantErr: true},
		{name: "short postcode", in: "Lyon", postcode: "6900", typ: TypeCity, wantErr: true},
		{name: "long postcode", in: "Lyon", postcode: "690010", typ: TypeCity, wantErr: true},
		{name: "unknown type", in: "Lyon", postcode: "69001", typ: Type("village"), wantErr: true},
		{name: "half coordinates", in: "Lyon", postcode: "69001", lat: ptr(45.7), typ: TypeCity, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.in, tt.postcode, "Rhône", tt.lat, tt.lon, tt.typ)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Lyon", r.Name)
			assert.Equal(t, "69001", r.Postcode)
		})
	}
}

func TestNewCopiesCoordinates(t *testing.T) {
	lat, lon := 45.7, 4.8
	r, err := New("Lyon", "69001", "Rhône", &lat, &lon, TypeCity)
	require.NoError(t, err)
	lat = 0
	assert.Equal(t, 45.7, *r.Lat)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, NormalizeName("lyon"), NormalizeName("  LYON "))
	assert.Equal(t, NormalizeName("évreux"), NormalizeName("ÉVREUX"))
	assert.Equal(t, "saint-étienne", NormalizeName("Saint-Étienne"))
	assert.NotEqual(t, NormalizeName("Lyon"), NormalizeName("Lyons"))
}

func TestKeyAndPredicates(t *testing.T) {
	r := MustNew("Paris 5e Arrondissement", "75005", "Paris", 48.84, 2.35, TypeArrondissement)
	assert.Equal(t, "Paris 5e Arrondissement_75005", r.Key())
	assert.True(t, r.IsArrondissement())
	assert.True(t, r.HasCoordinates())

	p, ok := r.Point()
	require.True(t, ok)
	assert.Equal(t, 2.35, p.Lon())
	assert.Equal(t, 48.84, p.Lat())

	city, err := New("Arrondissement-sur-Mer", "12345", "X", nil, nil, TypeCity)
	require.NoError(t, err)
	assert.True(t, city.IsArrondissement(), "marker is matched on the name, not the type")
	_, ok = city.Point()
	assert.False(t, ok)

	lower, err := New("Paris 5e arrondissement", "75005", "Paris", nil, nil, TypeCity)
	require.NoError(t, err)
	assert.False(t, lower.IsArrondissement())
}

func TestSort(t *testing.T) {
	recs := []Record{
		MustNew("Lyon", "69002", "Rhône", 0, 0, TypeCity),
		MustNew("Amiens", "80000", "Somme", 0, 0, TypeCity),
		MustNew("Lyon", "69001", "Rhône", 0, 0, TypeCity),
	}
	sorted := Sorted(recs)
	assert.False(t, IsSorted(recs), "input is left untouched")
	require.True(t, IsSorted(sorted))
	assert.Equal(t, []string{"Amiens", "Lyon", "Lyon"}, []string{sorted[0].Name, sorted[1].Name, sorted[2].Name})
	assert.Equal(t, "69001", sorted[1].Postcode)
}

func TestCloneDoesNotShareCoordinates(t *testing.T) {
	recs := []Record{MustNew("Lyon", "69001", "Rhône", 45.7, 4.8, TypeCity)}
	cp := Clone(recs)
	*cp[0].Lat = 0
	assert.Equal(t, 45.7, *recs[0].Lat)
}

func TestCounts(t *testing.T) {
	noCoords, err := New("Lille", "59000", "Nord", nil, nil, TypeCity)
	require.NoError(t, err)
	recs := []Record{
		noCoords,
		MustNew("Lyon 1er Arrondissement", "69001", "Rhône", 45.7, 4.8, TypeArrondissement),
		MustNew("Lyon", "69000", "Rhône", 45.7, 4.8, TypeCity),
	}
	assert.Equal(t, 1, CountMissingCoordinates(recs))
	assert.Equal(t, 1, CountArrondissements(recs))
}

package placeindex

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

func fixture(t *testing.T) []place.Record {
	t.Helper()
	brehat, err := place.New("Île-de-Bréhat", "22870", "Côtes-d'Armor", nil, nil, place.TypeCity)
	require.NoError(t, err)
	return []place.Record{
		place.MustNew("Lyon", "69001", "Rhône", 45.7676, 4.8344, place.TypeCity),
		place.MustNew("Lyon", "69000", "Rhône", 45.8702, 4.6410, place.TypeDepartment),
		place.MustNew("Lyonnais", "69290", "Rhône", 45.73, 4.66, place.TypeCity),
		place.MustNew("Lille", "59000", "Nord", 50.6311, 3.0586, place.TypeCity),
		place.MustNew("Lille", "59800", "Nord", 50.6311, 3.0586, place.TypeCity),
		place.MustNew("Nord", "59000", "Nord", 50.4476, 3.2217, place.TypeDepartment),
		place.MustNew("Saint-Denis", "97400", "La Réunion", -20.8823, 55.4504, place.TypeCity),
		brehat,
	}
}

func TestSearchByName(t *testing.T) {
	idx := Build(fixture(t))
	require.Equal(t, 8, idx.Len())

	got := idx.Search("lyo", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "69000", got[0].Postcode, "exact matches first, higher score first")
	assert.Equal(t, "69001", got[1].Postcode)
	assert.Equal(t, "Lyonnais", got[2].Name)

	got = idx.Search("LYON", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "Lyon", got[0].Name)
	assert.Equal(t, "Lyonnais", got[2].Name)

	assert.Len(t, idx.Search("ly", 2), 2)
	assert.Len(t, idx.Search("île", 5), 1)
	assert.Empty(t, idx.Search("zzz", 5))
	assert.Empty(t, idx.Search("  ", 5))
	assert.Empty(t, idx.Search("lyon", 0))
}

func TestSearchByPostcode(t *testing.T) {
	idx := Build(fixture(t))
	got := idx.Search("590", 10)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "59000", r.Postcode)
	}
	assert.Len(t, idx.Search("59", 10), 3)
}

func TestByPostcodeAndDepartments(t *testing.T) {
	idx := Build(fixture(t))
	assert.Len(t, idx.ByPostcode("59000"), 2)
	assert.Empty(t, idx.ByPostcode("00000"))

	deps := idx.Departments()
	require.Len(t, deps, 2)
	assert.Equal(t, "Lyon", deps[0].Name)
	assert.Equal(t, "Nord", deps[1].Name)
}

func TestNearest(t *testing.T) {
	idx := Build(fixture(t))

	rec, dist, ok := idx.Nearest(45.7640, 4.8357) // Lyon, place Bellecour area
	require.True(t, ok)
	assert.Equal(t, "Lyon", rec.Name)
	assert.Equal(t, "69001", rec.Postcode)
	assert.Less(t, dist, 1000.0)

	rec, _, ok = idx.Nearest(-20.9, 55.45)
	require.True(t, ok)
	assert.Equal(t, "Saint-Denis", rec.Name)

	_, _, ok = idx.Nearest(0, 0)
	assert.False(t, ok, "open sea is out of range")

	_, _, ok = idx.Nearest(91, 0)
	assert.False(t, ok)
}

func TestNearestEmpty(t *testing.T) {
	_, _, ok := Build(nil).Nearest(45.76, 4.83)
	assert.False(t, ok)
}

func TestRecordsAreCopies(t *testing.T) {
	idx := Build(fixture(t))
	recs := idx.Records()
	require.True(t, place.IsSorted(recs))
	*recs[0].Lat = 0
	assert.NotEqual(t, 0.0, *idx.Records()[0].Lat)
}

func TestHolder(t *testing.T) {
	var h Holder
	assert.Equal(t, 0, h.Load().Len())

	h.Store(Build(fixture(t)))
	assert.Equal(t, 8, h.Load().Len())

	h2 := NewHolder(Build(nil))
	assert.Equal(t, 0, h2.Load().Len())
}

func offset(lat, lon, meters, bearing float64) (float64, float64) {
	rad := bearing * math.Pi / 180
	dLat := meters * math.Cos(rad) / 111320
	dLon := meters * math.Sin(rad) / (111320 * math.Cos(lat*math.Pi/180))
	return lat + dLat, lon + dLon
}

func TestNearestLooksPastNeighbourCells(t *testing.T) {
	center := s2.CellFromCellID(s2.CellIDFromLatLng(s2.LatLngFromDegrees(48.90, 2.38)).Parent(s2CellLevel))
	qll := s2.LatLngFromPoint(center.Center())
	qLat, qLon := qll.Lat.Degrees(), qll.Lng.Degrees()
	query := orb.Point{qLon, qLat}

	block := map[s2.CellID]bool{}
	for _, c := range cellAndNeighbors(center.ID()) {
		block[c] = true
	}
	inBlock := func(lat, lon float64) bool {
		return block[s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(s2CellLevel)]
	}

	// Far record: just inside the farthest corner of the 3x3 block.
	var farLat, farLon, farDist float64
	for c := range block {
		cell := s2.CellFromCellID(c)
		for k := 0; k < 4; k++ {
			v := s2.LatLngFromPoint(cell.Vertex(k))
			lat, lon := v.Lat.Degrees(), v.Lng.Degrees()
			if d := geo.Distance(query, orb.Point{lon, lat}); d > farDist {
				farLat, farLon, farDist = lat, lon, d
			}
		}
	}
	farLat = qLat + (farLat-qLat)*0.98
	farLon = qLon + (farLon-qLon)*0.98
	require.True(t, inBlock(farLat, farLon))

	// Near record: the closest point just outside the block.
	nearDist := math.MaxFloat64
	var nearLat, nearLon float64
	for bearing := 0.0; bearing < 360; bearing += 5 {
		for d := 100.0; d < farDist; d += 100 {
			lat, lon := offset(qLat, qLon, d, bearing)
			if !inBlock(lat, lon) {
				if d < nearDist {
					nearLat, nearLon, nearDist = lat, lon, d
				}
				break
			}
		}
	}
	require.False(t, inBlock(nearLat, nearLon))
	require.Less(t, geo.Distance(query, orb.Point{nearLon, nearLat}), geo.Distance(query, orb.Point{farLon, farLat}))

	idx := Build([]place.Record{
		place.MustNew("Far", "93000", "Seine-Saint-Denis", farLat, farLon, place.TypeCity),
		place.MustNew("Near", "95000", "Val-d'Oise", nearLat, nearLon, place.TypeCity),
	})
	rec, _, ok := idx.Nearest(qLat, qLon)
	require.True(t, ok)
	assert.Equal(t, "Near", rec.Name)
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(48, 2))
	around := func() (float64, float64) {
		return 48.8566 + (rng.Float64()-0.5)*0.6, 2.3522 + (rng.Float64()-0.5)*0.9
	}

	for n := 0; n < 2000; n++ {
		var records []place.Record
		for i := 0; i < 3; i++ {
			lat, lon := around()
			records = append(records, place.MustNew(string(rune('A'+i)), "75000", "Paris", lat, lon, place.TypeCity))
		}
		lat, lon := around()
		query := orb.Point{lon, lat}

		want := math.MaxFloat64
		for _, r := range records {
			p, _ := r.Point()
			want = math.Min(want, geo.Distance(query, p))
		}

		_, got, ok := Build(records).Nearest(lat, lon)
		if want > MaxNearestDistance {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, "query %f,%f", lat, lon)
		require.InDelta(t, want, got, 1e-6, "query %f,%f", lat, lon)
	}
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

func TestMergePreservesResolvedCoordinates(t *testing.T) {
	previous := []place.Record{
		place.MustNew("Lyon", "69001", "Rhône", 45.76, 4.83, place.TypeCity),
	}
	fresh := []place.Record{
		place.MustNew("Lyon", "69001", "Rhône-registry", 1, 1, place.TypeCity),
	}

	out := Merge(previous, fresh)
	require.Len(t, out, 1)
	assert.Equal(t, "Rhône", out[0].Department)
	assert.Equal(t, 45.76, *out[0].Lat)
}

func TestMergeTakesFreshWhenPreviousUnresolved(t *testing.T) {
	unresolved := rec(t, "Lille", "59000", place.TypeCity)
	resolved := place.MustNew("Lille", "59000", "Nord", 50.63, 3.06, place.TypeCity)

	out := Merge([]place.Record{unresolved}, []place.Record{resolved})
	require.Len(t, out, 1)
	assert.True(t, out[0].HasCoordinates())
	assert.Equal(t, "Nord", out[0].Department)
}

func TestMergeUnionAndFreshDuplicates(t *testing.T) {
	previous := []place.Record{
		rec(t, "Brest", "29200", place.TypeCity),
		place.MustNew("Paris 5e Arrondissement", "75005", "Paris", 48.84, 2.35, place.TypeArrondissement),
	}
	fresh := []place.Record{
		place.MustNew("Lille", "59000", "Nord", 50.63, 3.06, place.TypeCity),
		place.MustNew("Lille", "59000", "Nord", 0, 0, place.TypeCity),
		place.MustNew("Brest", "29200", "Finistère", 48.39, -4.49, place.TypeCity),
	}

	out := Merge(previous, fresh)
	require.Len(t, out, 3)

	byKey := map[string]place.Record{}
	for _, r := range out {
		byKey[r.Key()] = r
	}
	assert.Contains(t, byKey, "Paris 5e Arrondissement_75005", "keys only in previous are kept")
	assert.Equal(t, 50.63, *byKey["Lille_59000"].Lat, "first fresh occurrence wins")
	assert.Equal(t, "Finistère", byKey["Brest_29200"].Department)
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	previous := []place.Record{place.MustNew("Lyon", "69001", "Rhône", 45.76, 4.83, place.TypeCity)}
	out := Merge(previous, nil)
	*out[0].Lat = 0
	assert.Equal(t, 45.76, *previous[0].Lat)
}

func TestMergeWithStats(t *testing.T) {
	previous := []place.Record{
		place.MustNew("Lyon", "69001", "Rhône", 45.76, 4.83, place.TypeCity),
		rec(t, "Brest", "29200", place.TypeCity),
		rec(t, "Brest", "29200", place.TypeCity),
		rec(t, "Quimper", "29000", place.TypeCity),
	}
	fresh := []place.Record{
		place.MustNew("Lyon", "69001", "Rhône", 1, 1, place.TypeCity),
		place.MustNew("Brest", "29200", "Finistère", 48.39, -4.49, place.TypeCity),
		place.MustNew("Lille", "59000", "Nord", 50.63, 3.06, place.TypeCity),
		place.MustNew("Lille", "59000", "Nord", 0, 0, place.TypeCity),
	}

	out, stats := MergeWithStats(previous, fresh)
	require.Len(t, out, 4)
	assert.Equal(t, MergeStats{Kept: 1, Replaced: 1, Appended: 1, Carried: 1}, stats)
	assert.Equal(t, Merge(previous, fresh), out)
}

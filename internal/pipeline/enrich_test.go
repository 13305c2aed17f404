package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/reference"
)

func TestEnrichArrondissementsReplacesAll(t *testing.T) {
	input := []place.Record{
		rec(t, "Lyon", "69000", place.TypeCity),
		rec(t, "Paris 5e Arrondissement", "75005", place.TypeCity),
		rec(t, "Marseille 17e Arrondissement", "13017", place.TypeArrondissement),
	}

	out, purged := EnrichArrondissements(input)
	assert.Equal(t, 2, purged)
	assert.Equal(t, reference.ArrondissementCount, place.CountArrondissements(out))
	assert.Len(t, out, 1+reference.ArrondissementCount)

	again, purgedAgain := EnrichArrondissements(out)
	assert.Equal(t, reference.ArrondissementCount, purgedAgain)
	assert.Equal(t, reference.ArrondissementCount, place.CountArrondissements(again))
	assert.Len(t, again, len(out))
}

func TestEnrichDepartmentsIsAdditive(t *testing.T) {
	existing := place.MustNew("Rhône", "69000", "Rhône", 1, 1, place.TypeDepartment)
	cityNamedLikeDept := rec(t, "Paris", "75001", place.TypeCity)

	out, added := EnrichDepartments([]place.Record{existing, cityNamedLikeDept})
	assert.Len(t, added, reference.DepartmentCount-1)
	assert.Len(t, out, 2+reference.DepartmentCount-1)
	assert.Equal(t, 1.0, *out[0].Lat, "existing department rows are untouched")

	var parisDept bool
	for _, r := range added {
		if r.Name == "Paris" {
			parisDept = true
			assert.Equal(t, place.TypeDepartment, r.Type)
		}
	}
	assert.True(t, parisDept, "a city with a department's name does not count")

	_, addedAgain := EnrichDepartments(out)
	assert.Empty(t, addedAgain)
	assert.Empty(t, MissingDepartments(out))
}

func TestMissingDepartments(t *testing.T) {
	missing := MissingDepartments(nil)
	require.Len(t, missing, reference.DepartmentCount)
	assert.Equal(t, reference.DepartmentNames(), missing)
}

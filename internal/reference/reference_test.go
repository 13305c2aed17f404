package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

func TestDepartments(t *testing.T) {
	deps := Departments()
	require.Len(t, deps, DepartmentCount)

	names := make(map[string]bool)
	for _, d := range deps {
		assert.Equal(t, place.TypeDepartment, d.Type)
		assert.Equal(t, d.Name, d.Department)
		assert.True(t, d.HasCoordinates(), d.Name)
		assert.False(t, names[d.Name], "duplicate department %s", d.Name)
		names[d.Name] = true
	}
	assert.Len(t, DepartmentNames(), DepartmentCount)
}

func TestDepartmentPostcodes(t *testing.T) {
	byName := make(map[string]string)
	for _, d := range Departments() {
		byName[d.Name] = d.Postcode
	}
	assert.Equal(t, "69000", byName["Rhône"])
	assert.Equal(t, "01000", byName["Ain"])
	assert.Equal(t, "20000", byName["Corse-du-Sud"])
	assert.Equal(t, "20200", byName["Haute-Corse"])
	assert.Equal(t, "97100", byName["Guadeloupe"])
	assert.Equal(t, "97600", byName["Mayotte"])
}

func TestDepartmentsReturnsFreshSlice(t *testing.T) {
	a := Departments()
	a[0].Name = "changed"
	*a[0].Lat = 0
	b := Departments()
	assert.NotEqual(t, "changed", b[0].Name)
	assert.NotEqual(t, 0.0, *b[0].Lat)
}

func TestArrondissements(t *testing.T) {
	arr := Arrondissements()
	require.Len(t, arr, ArrondissementCount)

	perCity := map[string]int{}
	for _, a := range arr {
		assert.Equal(t, place.TypeArrondissement, a.Type)
		assert.True(t, a.IsArrondissement(), a.Name)
		assert.True(t, a.HasCoordinates(), a.Name)
		perCity[strings.Fields(a.Name)[0]]++
	}
	assert.Equal(t, map[string]int{"Paris": 20, "Lyon": 9, "Marseille": 16}, perCity)

	assert.Equal(t, "Paris 1er Arrondissement", arr[0].Name)
	assert.Equal(t, "75001", arr[0].Postcode)
	assert.Equal(t, "Paris 20e Arrondissement", arr[19].Name)
	assert.Equal(t, "75020", arr[19].Postcode)
	assert.Equal(t, "69009", arr[28].Postcode)
	assert.Equal(t, "Rhône", arr[28].Department)
	assert.Equal(t, "13016", arr[44].Postcode)
}

func TestDepartmentForPostcode(t *testing.T) {
	tests := []struct {
		postcode string
		want     string
	}{
		{"20250", "Haute-Corse"},
		{"20000", "Corse-du-Sud"},
		{"20100", "Corse-du-Sud"},
		{"20300", UnknownDepartment},
		{"69001", "Rhône"},
		{"01000", "Ain"},
		{"59800", "Nord"},
		{"97100", "Guadeloupe"},
		{"97200", "Martinique"},
		{"97300", "Guyane"},
		{"97400", "La Réunion"},
		{"97600", "Mayotte"},
		{"97500", UnknownDepartment},
		{"98000", UnknownDepartment},
		{"00000", UnknownDepartment},
		{"7", UnknownDepartment},
		{"", UnknownDepartment},
	}
	for _, tt := range tests {
		t.Run(tt.postcode, func(t *testing.T) {
			assert.Equal(t, tt.want, DepartmentForPostcode(tt.postcode))
		})
	}
}

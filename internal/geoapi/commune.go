package geoapi

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Commune is one entry of the registry's /communes response.
type Commune struct {
	Name        string            `json:"nom"`
	Code        string            `json:"code"`
	Postcodes   []string          `json:"codesPostaux"`
	Centre      *geojson.Geometry `json:"centre,omitempty"`
	Departement *Departement      `json:"departement,omitempty"`
}

// Departement is the embedded department of a commune.
type Departement struct {
	Code string `json:"code"`
	Name string `json:"nom"`
}

// Centroid returns the commune centre. ok is false when the registry sent no
// centre or a geometry that is not a point.
func (c Commune) Centroid() (orb.Point, bool) {
	if c.Centre == nil || c.Centre.Coordinates == nil {
		return orb.Point{}, false
	}
	p, ok := c.Centre.Coordinates.(orb.Point)
	return p, ok
}

// DepartmentName returns the embedded department name, or "" when absent.
func (c Commune) DepartmentName() string {
	if c.Departement == nil {
		return ""
	}
	return c.Departement.Name
}

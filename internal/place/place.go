// Package place defines the canonical PlaceRecord every pipeline stage reads
// and writes. Records are the contract between the registry fetcher, the
// static enrichment tables, the merge/dedup stages and the persisted JSON
// dataset consumed by the frontend autocomplete.
package place

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/text/cases"
)

// Type tags the provenance of a record and drives dedup priority.
type Type string

const (
	TypeCity           Type = "city"
	TypeArrondissement Type = "arrondissement"
	TypeDepartment     Type = "department"
)

// Valid reports whether t is one of the known record types.
func (t Type) Valid() bool {
	switch t {
	case TypeCity, TypeArrondissement, TypeDepartment:
		return true
	}
	return false
}

// PostcodeLength is the fixed length of a French postal code.
const PostcodeLength = 5

// arrondissementMarker identifies arrondissement rows by name.
const arrondissementMarker = "Arrondissement"

// ErrInvalidRecord is returned by New when a record breaks the data model.
var ErrInvalidRecord = errors.New("invalid place record")

// Record is one entry of the place dataset.
type Record struct {
	Name       string   `json:"name"`
	Postcode   string   `json:"postcode"`
	Department string   `json:"department"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Type       Type     `json:"type"`
}

// New builds a validated record. Name and department are trimmed; the
// postcode must be exactly five characters.
func New(name, postcode, department string, lat, lon *float64, typ Type) (Record, error) {
	name = strings.TrimSpace(name)
	postcode = strings.TrimSpace(postcode)
	if name == "" {
		return Record{}, fmt.Errorf("%w: empty name (postcode %q)", ErrInvalidRecord, postcode)
	}
	if len(postcode) != PostcodeLength {
		return Record{}, fmt.Errorf("%w: %s: postcode %q is not %d characters", ErrInvalidRecord, name, postcode, PostcodeLength)
	}
	if !typ.Valid() {
		return Record{}, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidRecord, name, typ)
	}
	if (lat == nil) != (lon == nil) {
		return Record{}, fmt.Errorf("%w: %s %s: lat and lon must both be set or both be null", ErrInvalidRecord, name, postcode)
	}
	return Record{
		Name:       name,
		Postcode:   postcode,
		Department: strings.TrimSpace(department),
		Lat:        copyFloat(lat),
		Lon:        copyFloat(lon),
		Type:       typ,
	}, nil
}

// MustNew is New for static literals; it panics on invalid input.
func MustNew(name, postcode, department string, lat, lon float64, typ Type) Record {
	r, err := New(name, postcode, department, &lat, &lon, typ)
	if err != nil {
		panic(err)
	}
	return r
}

// Key is the merge key: name and postcode joined by an underscore.
func (r Record) Key() string {
	return r.Name + "_" + r.Postcode
}

// HasCoordinates reports whether both lat and lon are resolved.
func (r Record) HasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

// IsArrondissement reports whether the name carries the arrondissement marker.
func (r Record) IsArrondissement() bool {
	return strings.Contains(r.Name, arrondissementMarker)
}

// Point returns the centroid as an orb point (lon, lat). ok is false when the
// record has no coordinates.
func (r Record) Point() (orb.Point, bool) {
	if !r.HasCoordinates() {
		return orb.Point{}, false
	}
	return orb.Point{*r.Lon, *r.Lat}, true
}

// WithCoordinates returns a copy of r carrying the given centroid.
func (r Record) WithCoordinates(lat, lon float64) Record {
	r.Lat = &lat
	r.Lon = &lon
	return r
}

// NormalizeName is the dedup key of a name: surrounding whitespace removed
// and Unicode case folded, so "  LYON " and "lyon" group together.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Compare orders records by name, then postcode.
func Compare(a, b Record) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Postcode, b.Postcode)
}

// Sort orders records in place by (name, postcode).
func Sort(records []Record) {
	slices.SortStableFunc(records, Compare)
}

// Sorted returns a sorted copy, leaving the input untouched.
func Sorted(records []Record) []Record {
	out := Clone(records)
	Sort(out)
	return out
}

// IsSorted reports whether records are non-decreasing under (name, postcode).
func IsSorted(records []Record) bool {
	return slices.IsSortedFunc(records, Compare)
}

// Clone returns a copy of records whose coordinate pointers are not shared.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Lat = copyFloat(r.Lat)
		r.Lon = copyFloat(r.Lon)
		out[i] = r
	}
	return out
}

// CountMissingCoordinates counts records whose centroid is still null.
func CountMissingCoordinates(records []Record) int {
	n := 0
	for _, r := range records {
		if !r.HasCoordinates() {
			n++
		}
	}
	return n
}

// CountArrondissements counts records whose name carries the arrondissement marker.
func CountArrondissements(records []Record) int {
	n := 0
	for _, r := range records {
		if r.IsArrondissement() {
			n++
		}
	}
	return n
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

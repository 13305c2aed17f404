// Package placeindex is the in-memory lookup structure behind the API:
// prefix search on normalized names and postcodes, postcode lookup, and
// nearest-place queries over an S2 cell index.
package placeindex

import (
	"math"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/pipeline"
)

// s2CellLevel 10 gives cells of roughly 10km x 10km, small enough to group
// neighbouring communes and large enough that the 3x3 neighbourhood covers
// most queries on metropolitan France.
const s2CellLevel = 10

// MaxNearestDistance bounds Nearest; queries farther than this from every
// place (open sea, foreign territory) return no result.
const MaxNearestDistance = 50_000.0 // meters

// Index is an immutable snapshot of the dataset.
type Index struct {
	records   []place.Record
	keys      []string // normalized name per record, same order
	byName    []int    // record indexes sorted by normalized name
	byCode    map[string][]int
	cells     map[s2.CellID][]int
	deptIdxes []int
}

// Build indexes a copy of records.
func Build(records []place.Record) *Index {
	idx := &Index{
		records: place.Sorted(records),
		byCode:  make(map[string][]int),
		cells:   make(map[s2.CellID][]int),
	}
	idx.keys = make([]string, len(idx.records))
	idx.byName = make([]int, len(idx.records))
	for i, r := range idx.records {
		idx.keys[i] = place.NormalizeName(r.Name)
		idx.byName[i] = i
		idx.byCode[r.Postcode] = append(idx.byCode[r.Postcode], i)
		if r.Type == place.TypeDepartment {
			idx.deptIdxes = append(idx.deptIdxes, i)
		}
		if r.HasCoordinates() {
			cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(*r.Lat, *r.Lon)).Parent(s2CellLevel)
			idx.cells[cell] = append(idx.cells[cell], i)
		}
	}
	sort.SliceStable(idx.byName, func(a, b int) bool {
		return idx.keys[idx.byName[a]] < idx.keys[idx.byName[b]]
	})
	return idx
}

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.records) }

// Records returns a copy of the indexed records in dataset order.
func (idx *Index) Records() []place.Record { return place.Clone(idx.records) }

// Search returns up to limit records matching q. A numeric q matches
// postcode prefixes; anything else matches normalized name prefixes. Exact
// name matches come first, then higher dedup scores, then dataset order.
func (idx *Index) Search(q string, limit int) []place.Record {
	q = strings.TrimSpace(q)
	if q == "" || limit <= 0 {
		return nil
	}

	var hits []int
	if isDigits(q) {
		for i, r := range idx.records {
			if strings.HasPrefix(r.Postcode, q) {
				hits = append(hits, i)
			}
		}
	} else {
		key := place.NormalizeName(q)
		start := sort.Search(len(idx.byName), func(i int) bool {
			return idx.keys[idx.byName[i]] >= key
		})
		for _, i := range idx.byName[start:] {
			if !strings.HasPrefix(idx.keys[i], key) {
				break
			}
			hits = append(hits, i)
		}
		slices.SortStableFunc(hits, func(a, b int) int {
			ea, eb := idx.keys[a] == key, idx.keys[b] == key
			if ea != eb {
				if ea {
					return -1
				}
				return 1
			}
			sa, sb := pipeline.Score(idx.records[a]), pipeline.Score(idx.records[b])
			switch {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			}
			return a - b
		})
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return idx.collect(hits)
}

// ByPostcode returns every record carrying postcode.
func (idx *Index) ByPostcode(postcode string) []place.Record {
	return idx.collect(idx.byCode[postcode])
}

// Departments returns the department-type records.
func (idx *Index) Departments() []place.Record {
	return idx.collect(idx.deptIdxes)
}

// Nearest returns the closest record with coordinates and its distance in
// meters. ok is false for invalid input or when nothing lies within
// MaxNearestDistance.
//
// The query cell and its neighbours give a first candidate; every cell that
// intersects the circle of that candidate's distance is then scanned, so a
// closer place just outside the neighbourhood is never missed.
func (idx *Index) Nearest(lat, lon float64) (rec place.Record, dist float64, ok bool) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) ||
		lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return place.Record{}, 0, false
	}

	query := orb.Point{lon, lat}
	ll := s2.LatLngFromDegrees(lat, lon)
	cell := s2.CellIDFromLatLng(ll).Parent(s2CellLevel)

	best, bestDist := -1, math.MaxFloat64
	consider := func(i int) {
		p, _ := idx.records[i].Point()
		d := geo.Distance(query, p)
		if d < bestDist || (d == bestDist && i < best) {
			best, bestDist = i, d
		}
	}
	for _, c := range cellAndNeighbors(cell) {
		for _, i := range idx.cells[c] {
			consider(i)
		}
	}

	radius := math.Min(bestDist, MaxNearestDistance)
	for _, c := range cellsWithin(s2.PointFromLatLng(ll), radius) {
		for _, i := range idx.cells[c] {
			consider(i)
		}
	}

	if best < 0 || bestDist > MaxNearestDistance {
		return place.Record{}, 0, false
	}
	return place.Clone(idx.records[best : best+1])[0], bestDist, true
}

// cellsWithin returns the level-10 cells intersecting the spherical cap of
// the given radius in meters around center. The radius is padded slightly
// so cells on the boundary are not lost to rounding.
func cellsWithin(center s2.Point, radius float64) []s2.CellID {
	angle := s1.Angle(radius * 1.01 / orb.EarthRadius)
	coverer := &s2.RegionCoverer{MinLevel: s2CellLevel, MaxLevel: s2CellLevel, MaxCells: 256}

	var out []s2.CellID
	for _, c := range coverer.Covering(s2.CapFromCenterAngle(center, angle)) {
		if c.Level() > s2CellLevel {
			c = c.Parent(s2CellLevel)
		}
		end := c.ChildEndAtLevel(s2CellLevel)
		for id := c.ChildBeginAtLevel(s2CellLevel); id != end; id = id.Next() {
			out = append(out, id)
		}
	}
	return out
}

func (idx *Index) collect(ids []int) []place.Record {
	out := make([]place.Record, 0, len(ids))
	for _, i := range ids {
		out = append(out, idx.records[i])
	}
	return place.Clone(out)
}

// cellAndNeighbors returns the given cell plus its eight neighbours.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)
	seen := map[s2.CellID]bool{cell: true}

	edges := cell.EdgeNeighbors()
	for _, e := range edges {
		if !seen[e] {
			cells = append(cells, e)
			seen[e] = true
		}
	}
	for _, e := range edges {
		for _, corner := range e.EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// --------------------------------------------------------------------------
// Holder
// --------------------------------------------------------------------------

// Holder publishes the current index to concurrent readers and swaps it
// atomically on reload.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns a holder serving idx.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	h.Store(idx)
	return h
}

// Load returns the current index; never nil.
func (h *Holder) Load() *Index {
	if idx := h.current.Load(); idx != nil {
		return idx
	}
	return Build(nil)
}

// Store replaces the current index.
func (h *Holder) Store(idx *Index) {
	h.current.Store(idx)
}

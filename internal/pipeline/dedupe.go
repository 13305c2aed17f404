package pipeline

import (
	"strconv"
	"strings"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// Score weights. A department beats a city beats an arrondissement, and a
// "main" postcode ending in 000 outweighs any provenance difference.
const (
	scoreMainPostcode   = 100.0
	scoreDepartment     = 50.0
	scoreCity           = 30.0
	scoreArrondissement = 10.0
	scoreWellFormed     = 5.0
)

// Removal records one discarded duplicate, for audit logging only.
type Removal struct {
	Name            string `json:"name"`
	RemovedPostcode string `json:"removed_postcode"`
	KeptPostcode    string `json:"kept_postcode"`
}

// DedupResult is the outcome of a Deduplicate pass.
type DedupResult struct {
	Records []place.Record
	Removed []Removal
	// Groups is the number of names that had more than one record.
	Groups int
}

// Score rates a record competing for its name. Lower postcodes get a small
// continuous bonus, (100000 - postcode) / 10000, so metropolitan codes win
// over Corsican and overseas ones. A non-numeric postcode gets no bonus.
func Score(r place.Record) float64 {
	var s float64
	if strings.HasSuffix(r.Postcode, "000") {
		s += scoreMainPostcode
	}
	switch r.Type {
	case place.TypeDepartment:
		s += scoreDepartment
	case place.TypeCity:
		s += scoreCity
	case place.TypeArrondissement:
		s += scoreArrondissement
	}
	if len(r.Postcode) == place.PostcodeLength {
		s += scoreWellFormed
	}
	if n, err := strconv.Atoi(r.Postcode); err == nil {
		s += float64(100000-n) / 10000
	}
	return s
}

// better reports whether candidate should replace best. Ties on score go to
// the lexicographically smaller postcode; full ties keep the earlier record.
func better(candidate, best place.Record) bool {
	cs, bs := Score(candidate), Score(best)
	if cs != bs {
		return cs > bs
	}
	return candidate.Postcode < best.Postcode
}

// Deduplicate keeps exactly one record per normalized name. Groups are
// visited in first-appearance order and the output is sorted.
func Deduplicate(records []place.Record) DedupResult {
	order := make([]string, 0, len(records))
	groups := make(map[string][]place.Record, len(records))
	for _, r := range records {
		key := place.NormalizeName(r.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	var result DedupResult
	result.Records = make([]place.Record, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			result.Records = append(result.Records, group[0])
			continue
		}

		result.Groups++
		bestIdx := 0
		for i := 1; i < len(group); i++ {
			if better(group[i], group[bestIdx]) {
				bestIdx = i
			}
		}
		kept := group[bestIdx]
		result.Records = append(result.Records, kept)
		for i, r := range group {
			if i == bestIdx {
				continue
			}
			result.Removed = append(result.Removed, Removal{
				Name:            r.Name,
				RemovedPostcode: r.Postcode,
				KeptPostcode:    kept.Postcode,
			})
		}
	}

	result.Records = place.Sorted(result.Records)
	return result
}

// DuplicateGroups counts names that appear more than once after normalization.
func DuplicateGroups(records []place.Record) int {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[place.NormalizeName(r.Name)]++
	}
	n := 0
	for _, c := range counts {
		if c > 1 {
			n++
		}
	}
	return n
}

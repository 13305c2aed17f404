package pipeline

import "github.com/apeiron-tech/Immoxperts-sub001/internal/place"

// Merge unions a previously persisted dataset with freshly fetched records,
// keyed by name and postcode.
//
// A previous record that already has coordinates is kept verbatim; otherwise
// the fresh record replaces it (its coordinates may still be null). Keys that
// only exist in previous are carried forward, keys that only exist in fresh
// are appended. Duplicate keys inside fresh collapse to the first occurrence.
func Merge(previous, fresh []place.Record) []place.Record {
	out, _ := MergeWithStats(previous, fresh)
	return out
}

// MergeStats counts how Merge resolved each key.
type MergeStats struct {
	// Kept previous records that already had coordinates.
	Kept int
	// Replaced previous records superseded by their fresh counterpart.
	Replaced int
	// Appended keys that only exist in fresh.
	Appended int
	// Carried keys that only exist in previous.
	Carried int
}

// MergeWithStats is Merge, also reporting what happened to each key.
func MergeWithStats(previous, fresh []place.Record) ([]place.Record, MergeStats) {
	var stats MergeStats
	index := make(map[string]int, len(previous))
	out := make([]place.Record, 0, len(previous)+len(fresh))
	for _, r := range previous {
		if _, dup := index[r.Key()]; dup {
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}

	seenFresh := make(map[string]bool)
	for _, r := range fresh {
		key := r.Key()
		i, exists := index[key]
		switch {
		case !exists:
			index[key] = len(out)
			out = append(out, r)
			seenFresh[key] = true
			stats.Appended++
		case seenFresh[key]:
			// already taken from fresh
		case out[i].HasCoordinates():
			seenFresh[key] = true
			stats.Kept++
		default:
			out[i] = r
			seenFresh[key] = true
			stats.Replaced++
		}
	}
	stats.Carried = len(out) - stats.Appended - stats.Kept - stats.Replaced
	return place.Clone(out), stats
}

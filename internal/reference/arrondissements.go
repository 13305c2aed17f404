package reference

import (
	"fmt"
	"sync"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// ArrondissementCount is 20 (Paris) + 9 (Lyon) + 16 (Marseille).
const ArrondissementCount = 45

type arrondissementCity struct {
	City       string
	Department string
	// PostcodeBase + n gives the postcode of the n-th arrondissement.
	PostcodeBase int
	Centroids    [][2]float64 // lat, lon per arrondissement, 1-indexed by position
}

var arrondissementCities = []arrondissementCity{
	{
		City: "Paris", Department: "Paris", PostcodeBase: 75000,
		Centroids: [][2]float64{
			{48.8625, 2.3364}, {48.8683, 2.3428}, {48.8630, 2.3601}, {48.8543, 2.3576},
			{48.8445, 2.3507}, {48.8491, 2.3330}, {48.8562, 2.3121}, {48.8727, 2.3125},
			{48.8770, 2.3374}, {48.8762, 2.3608}, {48.8591, 2.3801}, {48.8350, 2.4213},
			{48.8283, 2.3623}, {48.8292, 2.3266}, {48.8401, 2.2935}, {48.8604, 2.2620},
			{48.8873, 2.3067}, {48.8925, 2.3484}, {48.8871, 2.3848}, {48.8634, 2.4011},
		},
	},
	{
		City: "Lyon", Department: "Rhône", PostcodeBase: 69000,
		Centroids: [][2]float64{
			{45.7676, 4.8344}, {45.7485, 4.8270}, {45.7600, 4.8490},
			{45.7786, 4.8270}, {45.7560, 4.8020}, {45.7690, 4.8520},
			{45.7450, 4.8420}, {45.7350, 4.8690}, {45.7740, 4.8050},
		},
	},
	{
		City: "Marseille", Department: "Bouches-du-Rhône", PostcodeBase: 13000,
		Centroids: [][2]float64{
			{43.2999, 5.3841}, {43.3126, 5.3639}, {43.3121, 5.3801}, {43.3066, 5.4008},
			{43.2928, 5.3975}, {43.2870, 5.3811}, {43.2826, 5.3631}, {43.2410, 5.3745},
			{43.2343, 5.4519}, {43.2759, 5.4263}, {43.2889, 5.4840}, {43.3078, 5.4403},
			{43.3493, 5.4330}, {43.3447, 5.3916}, {43.3590, 5.3640}, {43.3640, 5.3146},
		},
	},
}

// Arrondissements returns the 45 arrondissement records of Paris, Lyon and
// Marseille, named "<City> <Nth> Arrondissement". The slice is freshly
// allocated on every call.
func Arrondissements() []place.Record {
	return place.Clone(arrondissementRecords())
}

var arrondissementRecords = sync.OnceValue(func() []place.Record {
	out := make([]place.Record, 0, ArrondissementCount)
	for _, c := range arrondissementCities {
		for i, ll := range c.Centroids {
			n := i + 1
			name := fmt.Sprintf("%s %s Arrondissement", c.City, ordinal(n))
			postcode := fmt.Sprintf("%05d", c.PostcodeBase+n)
			out = append(out, place.MustNew(name, postcode, c.Department, ll[0], ll[1], place.TypeArrondissement))
		}
	}
	return out
})

// ordinal renders French ordinals as used in arrondissement names: 1er, 2e, 3e...
func ordinal(n int) string {
	if n == 1 {
		return "1er"
	}
	return fmt.Sprintf("%de", n)
}

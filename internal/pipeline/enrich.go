package pipeline

import (
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/reference"
)

// EnrichArrondissements replaces every arrondissement row with the reference
// table: records whose name contains "Arrondissement" are purged first, then
// the 45 literals are appended. Running it twice yields the same set.
func EnrichArrondissements(records []place.Record) (out []place.Record, purged int) {
	arr := reference.Arrondissements()
	out = make([]place.Record, 0, len(records)+len(arr))
	for _, r := range records {
		if r.IsArrondissement() {
			purged++
			continue
		}
		out = append(out, r)
	}
	out = append(out, arr...)
	return place.Clone(out), purged
}

// EnrichDepartments adds the reference departments whose name is not already
// present as a department-type record. Existing rows are left untouched.
func EnrichDepartments(records []place.Record) (out []place.Record, added []place.Record) {
	present := make(map[string]bool)
	for _, r := range records {
		if r.Type == place.TypeDepartment {
			present[r.Name] = true
		}
	}

	out = place.Clone(records)
	for _, d := range reference.Departments() {
		if present[d.Name] {
			continue
		}
		out = append(out, d)
		added = append(added, d)
	}
	return out, added
}

// MissingDepartments lists reference department names absent from records
// as department-type rows.
func MissingDepartments(records []place.Record) []string {
	present := make(map[string]bool)
	for _, r := range records {
		if r.Type == place.TypeDepartment {
			present[r.Name] = true
		}
	}
	var missing []string
	for _, name := range reference.DepartmentNames() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Package reference holds the hand-curated tables the public commune registry
// cannot provide: the postcode-prefix department fallback, department
// centroids and the Paris/Lyon/Marseille arrondissements.
package reference

import (
	"sync"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// UnknownDepartment is returned when no prefix matches.
const UnknownDepartment = "Unknown"

// department is one row of the department table.
type department struct {
	Code     string // INSEE code: "01".."95", "2A", "2B", "971".."976"
	Name     string
	Postcode string // synthetic DD000 code used by department records
	Lat, Lon float64
}

// --------------------------------------------------------------------------
// Department table: 94 metropolitan + 2 Corsican + 5 overseas
// --------------------------------------------------------------------------

var departmentTable = []department{
	{"01", "Ain", "01000", 46.0652, 5.3486},
	{"02", "Aisne", "02000", 49.5594, 3.5585},
	{"03", "Allier", "03000", 46.3937, 3.1884},
	{"04", "Alpes-de-Haute-Provence", "04000", 44.1062, 6.2435},
	{"05", "Hautes-Alpes", "05000", 44.6635, 6.2629},
	{"06", "Alpes-Maritimes", "06000", 43.9378, 7.1163},
	{"07", "Ardèche", "07000", 44.7515, 4.4241},
	{"08", "Ardennes", "08000", 49.6159, 4.6407},
	{"09", "Ariège", "09000", 42.9203, 1.5035},
	{"10", "Aube", "10000", 48.3046, 4.1615},
	{"11", "Aude", "11000", 43.1032, 2.4142},
	{"12", "Aveyron", "12000", 44.2799, 2.6797},
	{"13", "Bouches-du-Rhône", "13000", 43.5430, 5.0861},
	{"14", "Calvados", "14000", 49.0993, -0.3631},
	{"15", "Cantal", "15000", 45.0508, 2.6684},
	{"16", "Charente", "16000", 45.7180, 0.2015},
	{"17", "Charente-Maritime", "17000", 45.7803, -0.6743},
	{"18", "Cher", "18000", 47.0647, 2.4914},
	{"19", "Corrèze", "19000", 45.3571, 1.8770},
	{"21", "Côte-d'Or", "21000", 47.4247, 4.7723},
	{"22", "Côtes-d'Armor", "22000", 48.4411, -2.8637},
	{"23", "Creuse", "23000", 46.0904, 2.0182},
	{"24", "Dordogne", "24000", 45.1043, 0.7412},
	{"25", "Doubs", "25000", 47.1653, 6.3625},
	{"26", "Drôme", "26000", 44.6849, 5.1680},
	{"27", "Eure", "27000", 49.1135, 0.9962},
	{"28", "Eure-et-Loir", "28000", 48.3874, 1.3705},
	{"29", "Finistère", "29000", 48.2600, -4.0590},
	{"30", "Gard", "30000", 43.9934, 4.1805},
	{"31", "Haute-Garonne", "31000", 43.3593, 1.1728},
	{"32", "Gers", "32000", 43.6953, 0.4532},
	{"33", "Gironde", "33000", 44.8250, -0.5752},
	{"34", "Hérault", "34000", 43.5799, 3.3672},
	{"35", "Ille-et-Vilaine", "35000", 48.1547, -1.6385},
	{"36", "Indre", "36000", 46.7781, 1.5757},
	{"37", "Indre-et-Loire", "37000", 47.2583, 0.6912},
	{"38", "Isère", "38000", 45.2634, 5.5762},
	{"39", "Jura", "39000", 46.7286, 5.6977},
	{"40", "Landes", "40000", 43.9658, -0.7834},
	{"41", "Loir-et-Cher", "41000", 47.6162, 1.4292},
	{"42", "Loire", "42000", 45.7262, 4.1653},
	{"43", "Haute-Loire", "43000", 45.1281, 3.8060},
	{"44", "Loire-Atlantique", "44000", 47.3482, -1.8729},
	{"45", "Loiret", "45000", 47.9122, 2.3440},
	{"46", "Lot", "46000", 44.6241, 1.6050},
	{"47", "Lot-et-Garonne", "47000", 44.3672, 0.4602},
	{"48", "Lozère", "48000", 44.5174, 3.5003},
	{"49", "Maine-et-Loire", "49000", 47.3901, -0.5640},
	{"50", "Manche", "50000", 49.0799, -1.3280},
	{"51", "Marne", "51000", 48.9491, 4.2386},
	{"52", "Haute-Marne", "52000", 48.1094, 5.2263},
	{"53", "Mayenne", "53000", 48.1462, -0.6580},
	{"54", "Meurthe-et-Moselle", "54000", 48.7872, 6.1650},
	{"55", "Meuse", "55000", 49.0128, 5.4283},
	{"56", "Morbihan", "56000", 47.8465, -2.8101},
	{"57", "Moselle", "57000", 49.0373, 6.6633},
	{"58", "Nièvre", "58000", 47.1154, 3.5046},
	{"59", "Nord", "59000", 50.4476, 3.2217},
	{"60", "Oise", "60000", 49.4103, 2.4253},
	{"61", "Orne", "61000", 48.5762, 0.1283},
	{"62", "Pas-de-Calais", "62000", 50.4937, 2.2884},
	{"63", "Puy-de-Dôme", "63000", 45.7259, 3.1403},
	{"64", "Pyrénées-Atlantiques", "64000", 43.2566, -0.7617},
	{"65", "Hautes-Pyrénées", "65000", 43.0532, 0.1639},
	{"66", "Pyrénées-Orientales", "66000", 42.6000, 2.5223},
	{"67", "Bas-Rhin", "67000", 48.6707, 7.5512},
	{"68", "Haut-Rhin", "68000", 47.8583, 7.2741},
	{"69", "Rhône", "69000", 45.8702, 4.6410},
	{"70", "Haute-Saône", "70000", 47.6413, 6.0865},
	{"71", "Saône-et-Loire", "71000", 46.6447, 4.5423},
	{"72", "Sarthe", "72000", 47.9939, 0.2226},
	{"73", "Savoie", "73000", 45.4775, 6.4434},
	{"74", "Haute-Savoie", "74000", 46.0345, 6.4283},
	{"75", "Paris", "75000", 48.8566, 2.3522},
	{"76", "Seine-Maritime", "76000", 49.6556, 0.9370},
	{"77", "Seine-et-Marne", "77000", 48.6263, 2.9330},
	{"78", "Yvelines", "78000", 48.8153, 1.8412},
	{"79", "Deux-Sèvres", "79000", 46.5551, -0.3165},
	{"80", "Somme", "80000", 49.9580, 2.2771},
	{"81", "Tarn", "81000", 43.7922, 2.1665},
	{"82", "Tarn-et-Garonne", "82000", 44.0854, 1.2817},
	{"83", "Var", "83000", 43.4606, 6.2183},
	{"84", "Vaucluse", "84000", 44.0073, 5.1864},
	{"85", "Vendée", "85000", 46.6760, -1.2955},
	{"86", "Vienne", "86000", 46.5633, 0.4653},
	{"87", "Haute-Vienne", "87000", 45.8917, 1.2347},
	{"88", "Vosges", "88000", 48.1969, 6.3813},
	{"89", "Yonne", "89000", 47.8390, 3.5647},
	{"90", "Territoire de Belfort", "90000", 47.6312, 6.9289},
	{"91", "Essonne", "91000", 48.5222, 2.2430},
	{"92", "Hauts-de-Seine", "92000", 48.8478, 2.2461},
	{"93", "Seine-Saint-Denis", "93000", 48.9174, 2.4787},
	{"94", "Val-de-Marne", "94000", 48.7775, 2.4685},
	{"95", "Val-d'Oise", "95000", 49.0827, 2.1310},

	{"2A", "Corse-du-Sud", "20000", 41.8633, 8.9844},
	{"2B", "Haute-Corse", "20200", 42.3884, 9.2015},

	{"971", "Guadeloupe", "97100", 16.2650, -61.5510},
	{"972", "Martinique", "97200", 14.6415, -61.0242},
	{"973", "Guyane", "97300", 3.9339, -53.1258},
	{"974", "La Réunion", "97400", -21.1151, 55.5364},
	{"976", "Mayotte", "97600", -12.8275, 45.1662},
}

// DepartmentCount is the number of departments in the reference table.
const DepartmentCount = 101

var departmentsByCode = func() map[string]string {
	m := make(map[string]string, len(departmentTable))
	for _, d := range departmentTable {
		m[d.Code] = d.Name
	}
	return m
}()

// Departments returns one department-type record per French department with
// its centroid. The slice is freshly allocated on every call.
func Departments() []place.Record {
	return place.Clone(departmentRecords())
}

var departmentRecords = sync.OnceValue(func() []place.Record {
	out := make([]place.Record, 0, len(departmentTable))
	for _, d := range departmentTable {
		out = append(out, place.MustNew(d.Name, d.Postcode, d.Name, d.Lat, d.Lon, place.TypeDepartment))
	}
	return out
})

// DepartmentNames returns the names of all reference departments in table order.
func DepartmentNames() []string {
	names := make([]string, len(departmentTable))
	for i, d := range departmentTable {
		names[i] = d.Name
	}
	return names
}

// DepartmentForPostcode resolves a department name from a postcode prefix.
//
// Corsica shares the "20" prefix: 200xx/201xx belong to Corse-du-Sud and
// 202xx to Haute-Corse. Overseas departments use three-digit prefixes.
// Anything else that does not match returns UnknownDepartment.
func DepartmentForPostcode(postcode string) string {
	if len(postcode) < 3 {
		return UnknownDepartment
	}
	switch prefix3 := postcode[:3]; {
	case prefix3 == "200" || prefix3 == "201":
		return departmentsByCode["2A"]
	case prefix3 == "202":
		return departmentsByCode["2B"]
	case postcode[:2] == "20":
		return UnknownDepartment
	case postcode[:2] == "97":
		if name, ok := departmentsByCode[prefix3]; ok {
			return name
		}
		return UnknownDepartment
	}
	if name, ok := departmentsByCode[postcode[:2]]; ok {
		return name
	}
	return UnknownDepartment
}

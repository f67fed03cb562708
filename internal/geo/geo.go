// Package geo maps Tunisian cities to named proximity groups used for
// shipping-time tiers.
package geo

// Group is a named cluster of cities considered close for delivery purposes.
type Group string

const (
	TunisMetro   Group = "TunisMetro"
	NorthEast    Group = "NorthEast"
	NorthWest    Group = "NorthWest"
	Sahel        Group = "Sahel"
	CentralWest  Group = "CentralWest"
	SfaxRegion   Group = "SfaxRegion"
	SouthEast    Group = "SouthEast"
	SouthWest    Group = "SouthWest"
)

// groups is declared in a fixed order because the source table is not a
// partition: Gafsa and Kebili each appear in two groups. The first group
// containing a city wins, so Gafsa resolves to CentralWest and Kebili to
// SouthEast.
var groups = []struct {
	name   Group
	cities []string
}{
	{TunisMetro, []string{"Tunis", "Ariana", "Ben Arous", "Manouba"}},
	{NorthEast, []string{"Nabeul", "Bizerte", "Zaghouan"}},
	{NorthWest, []string{"Beja", "Jendouba", "Kef", "Siliana"}},
	{Sahel, []string{"Sousse", "Monastir", "Mahdia"}},
	{CentralWest, []string{"Kairouan", "Kasserine", "Sidi Bouzid", "Gafsa"}},
	{SfaxRegion, []string{"Sfax"}},
	{SouthEast, []string{"Gabes", "Medenine", "Tataouine", "Kebili"}},
	{SouthWest, []string{"Gafsa", "Tozeur", "Kebili"}},
}

var index map[string]Group

func init() {
	index = make(map[string]Group)
	for _, g := range groups {
		for _, city := range g.cities {
			if _, ok := index[city]; ok {
				continue
			}
			index[city] = g.name
		}
	}
}

// GroupOf returns the proximity group for a city. The lookup is exact and
// case-sensitive; callers normalize whitespace beforehand.
func GroupOf(city string) (Group, bool) {
	g, ok := index[city]
	return g, ok
}

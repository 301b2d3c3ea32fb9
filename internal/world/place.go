package world

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// PlaceType classifies a generated place.
type PlaceType int

const (
	PlaceInn PlaceType = iota
	PlaceTavern
	PlaceTemple
	PlaceShrine
	PlaceShop
	PlaceMarket
	PlaceCastle
	PlaceKeep
	PlaceTower
	PlaceWarehouse
	PlaceResidence
	PlaceLibrary
	PlaceAcademy
	PlaceHamlet
	PlaceVillage
	PlaceTown
	PlaceCity
	PlaceBridge
	PlaceHarbor
	PlaceRuin
	PlaceForest
	PlaceMountain
	PlaceRiver
	PlaceLake
)

var placeTypeWords = map[string]PlaceType{
	"inn": PlaceInn, "tavern": PlaceTavern, "pub": PlaceTavern, "bar": PlaceTavern,
	"temple": PlaceTemple, "shrine": PlaceShrine,
	"shop": PlaceShop, "store": PlaceShop, "market": PlaceMarket, "bazaar": PlaceMarket,
	"castle": PlaceCastle, "keep": PlaceKeep, "tower": PlaceTower,
	"warehouse": PlaceWarehouse, "residence": PlaceResidence, "house": PlaceResidence,
	"library": PlaceLibrary, "academy": PlaceAcademy, "school": PlaceAcademy,
	"hamlet": PlaceHamlet, "village": PlaceVillage, "town": PlaceTown, "city": PlaceCity,
	"bridge": PlaceBridge, "harbor": PlaceHarbor, "port": PlaceHarbor,
	"ruin": PlaceRuin, "forest": PlaceForest, "mountain": PlaceMountain,
	"river": PlaceRiver, "lake": PlaceLake,
}

// PlaceTypeWords lists every word the grammar accepts as a place type.
func PlaceTypeWords() []string {
	return sortedKeys(placeTypeWords)
}

// ParsePlaceType maps a word from the grammar onto a PlaceType.
func ParsePlaceType(word string) (PlaceType, bool) {
	p, ok := placeTypeWords[strings.ToLower(word)]
	return p, ok
}

func (p PlaceType) String() string {
	names := [...]string{
		"inn", "tavern", "temple", "shrine", "shop", "market", "castle",
		"keep", "tower", "warehouse", "residence", "library", "academy",
		"hamlet", "village", "town", "city", "bridge", "harbor", "ruin",
		"forest", "mountain", "river", "lake",
	}
	if int(p) < len(names) {
		return names[p]
	}
	return "place"
}

// PlaceData holds the generated attributes of a place.
type PlaceData struct {
	Name        Field[string]    `json:"name"`
	Subtype     Field[PlaceType] `json:"subtype"`
	Description Field[string]    `json:"description"`
	Parent      Field[uuid.UUID] `json:"parent"`
}

func (d *PlaceData) Kind() Kind { return KindPlace }

func (d *PlaceData) NameField() *Field[string] { return &d.Name }

func (d *PlaceData) Clone() ThingData {
	clone := *d
	return &clone
}

// Regenerate fills the unlocked, unset fields. There is no name generator
// for places beyond the inn-style default, so unnamed non-inn places stay
// unnamed and creation surfaces the missing-name error.
func (d *PlaceData) Regenerate(rng *rand.Rand, _ *Demographics, names NameGenerator) {
	d.Subtype.FillWith(func() PlaceType { return PlaceInn })
	if subtype, ok := d.Subtype.Value(); ok && subtype == PlaceInn {
		d.Name.FillWith(func() string { return names.GeneratePlaceName(rng, subtype) })
	}
}

// DisplayDescription renders the one-line description, e.g. "inn".
func (d *PlaceData) DisplayDescription() string {
	if subtype, ok := d.Subtype.Value(); ok {
		return subtype.String()
	}
	return "place"
}

// DisplaySummary renders the single-line markdown summary.
func (d *PlaceData) DisplaySummary() string {
	name := d.Name.MustValue()
	if name == "" {
		return d.DisplayDescription()
	}
	return fmt.Sprintf("**%s** (%s)", name, d.DisplayDescription())
}

// DisplayDetails renders the full markdown sheet.
func (d *PlaceData) DisplayDetails(rel *ThingRelations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Name.MustValue())
	fmt.Fprintf(&b, "*%s*\n\n", d.DisplayDescription())

	if rel != nil && rel.Location != nil {
		fmt.Fprintf(&b, "**Location:** %s\\\n", rel.Location.Name().MustValue())
	}
	if description, ok := d.Description.Value(); ok {
		fmt.Fprintf(&b, "%s\n", description)
	}

	return strings.TrimSuffix(b.String(), "\\\n") + "\n"
}

func (d *PlaceData) applyDiff(diff ThingData) error {
	other, ok := diff.(*PlaceData)
	if !ok {
		return fmt.Errorf("cannot apply %s diff to place", diff.Kind())
	}
	d.Name.ApplyDiff(&other.Name)
	d.Subtype.ApplyDiff(&other.Subtype)
	d.Description.ApplyDiff(&other.Description)
	d.Parent.ApplyDiff(&other.Parent)
	return nil
}

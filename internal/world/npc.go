package world

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Gender is a character's gender presentation, chosen from the word lists
// the create grammar recognizes.
type Gender int

const (
	Masculine Gender = iota
	Feminine
	NonBinary
	Neuter
)

var genderWords = map[string]Gender{
	"masculine": Masculine, "male": Masculine, "man": Masculine, "boy": Masculine,
	"husband": Masculine, "father": Masculine, "son": Masculine,
	"feminine": Feminine, "female": Feminine, "woman": Feminine, "girl": Feminine,
	"wife": Feminine, "mother": Feminine, "daughter": Feminine,
	"non-binary": NonBinary, "nonbinary": NonBinary, "enby": NonBinary,
	"neuter": Neuter,
}

// GenderWords lists every word the grammar accepts as a gender.
func GenderWords() []string {
	return sortedKeys(genderWords)
}

// ParseGender maps a word from the grammar onto a Gender.
func ParseGender(word string) (Gender, bool) {
	g, ok := genderWords[strings.ToLower(word)]
	return g, ok
}

// ImpliedAge returns the age bracket a gender word carries with it, if any:
// "boy" is a child, "father" is an adult.
func ImpliedAge(word string) (Age, bool) {
	switch strings.ToLower(word) {
	case "boy", "girl", "son", "daughter":
		return AgeChild, true
	case "man", "woman", "husband", "wife", "father", "mother":
		return AgeAdult, true
	default:
		return 0, false
	}
}

func (g Gender) String() string {
	switch g {
	case Masculine:
		return "masculine"
	case Feminine:
		return "feminine"
	case NonBinary:
		return "non-binary"
	default:
		return "neuter"
	}
}

// Pronouns returns the "he/him" style pronoun pair.
func (g Gender) Pronouns() string {
	switch g {
	case Masculine:
		return "he/him"
	case Feminine:
		return "she/her"
	case NonBinary:
		return "they/them"
	default:
		return "it"
	}
}

// Them returns the objective pronoun, used in prose like "save them".
func (g Gender) Them() string {
	switch g {
	case Masculine:
		return "him"
	case Feminine:
		return "her"
	case NonBinary:
		return "them"
	default:
		return "it"
	}
}

// Age is a coarse age bracket.
type Age int

const (
	AgeInfant Age = iota
	AgeChild
	AgeAdolescent
	AgeYoungAdult
	AgeAdult
	AgeMiddleAged
	AgeElderly
	AgeGeriatric
)

var ageWords = map[string]Age{
	"infant": AgeInfant, "baby": AgeInfant,
	"child": AgeChild, "kid": AgeChild,
	"adolescent": AgeAdolescent, "teenager": AgeAdolescent, "teenage": AgeAdolescent,
	"young-adult": AgeYoungAdult, "young": AgeYoungAdult,
	"adult": AgeAdult,
	"middle-aged": AgeMiddleAged,
	"elderly": AgeElderly, "old": AgeElderly,
	"geriatric": AgeGeriatric, "ancient": AgeGeriatric,
}

// AgeWords lists every word the grammar accepts as an age bracket.
func AgeWords() []string {
	return sortedKeys(ageWords)
}

// ParseAge maps a word from the grammar onto an Age.
func ParseAge(word string) (Age, bool) {
	a, ok := ageWords[strings.ToLower(word)]
	return a, ok
}

func (a Age) String() string {
	switch a {
	case AgeInfant:
		return "infant"
	case AgeChild:
		return "child"
	case AgeAdolescent:
		return "adolescent"
	case AgeYoungAdult:
		return "young adult"
	case AgeAdult:
		return "adult"
	case AgeMiddleAged:
		return "middle-aged"
	case AgeElderly:
		return "elderly"
	default:
		return "geriatric"
	}
}

// yearsRange returns the bounds of the bracket in human-equivalent years.
func (a Age) yearsRange() (min, max int) {
	switch a {
	case AgeInfant:
		return 0, 2
	case AgeChild:
		return 2, 10
	case AgeAdolescent:
		return 10, 20
	case AgeYoungAdult:
		return 20, 30
	case AgeAdult:
		return 30, 40
	case AgeMiddleAged:
		return 40, 60
	case AgeElderly:
		return 60, 70
	default:
		return 70, 90
	}
}

// NpcData holds the generated attributes of a character. Every field is a
// Field so the user can pin or clear individual attributes between
// regenerations.
type NpcData struct {
	Name      Field[string]    `json:"name"`
	Gender    Field[Gender]    `json:"gender"`
	Age       Field[Age]       `json:"age"`
	AgeYears  Field[int]       `json:"age_years"`
	Species   Field[Species]   `json:"species"`
	Ethnicity Field[Ethnicity] `json:"ethnicity"`
	Location  Field[uuid.UUID] `json:"location"`
}

func (d *NpcData) Kind() Kind { return KindNpc }

func (d *NpcData) NameField() *Field[string] { return &d.Name }

func (d *NpcData) Clone() ThingData {
	clone := *d
	return &clone
}

// Regenerate fills every unlocked, unset field by sampling. Species and
// ethnicity are drawn together from the demographic tables; age in years is
// derived from the age bracket; the name comes from the name generator.
func (d *NpcData) Regenerate(rng *rand.Rand, demo *Demographics, names NameGenerator) {
	if species, ok := d.Species.Value(); ok {
		demo = demo.OnlySpecies(species)
	}
	if ethnicity, ok := d.Ethnicity.Value(); ok {
		demo = demo.OnlyEthnicity(ethnicity)
	}
	species, ethnicity := demo.GenSpeciesEthnicity(rng)
	d.Species.FillWith(func() Species { return species })
	d.Ethnicity.FillWith(func() Ethnicity { return ethnicity })

	d.Gender.FillWith(func() Gender {
		return []Gender{Masculine, Feminine, Feminine, Masculine, NonBinary}[rng.IntN(5)]
	})
	d.Age.FillWith(func() Age {
		return []Age{AgeChild, AgeAdolescent, AgeYoungAdult, AgeAdult, AgeAdult, AgeMiddleAged, AgeElderly, AgeGeriatric}[rng.IntN(8)]
	})
	d.AgeYears.FillWith(func() int {
		min, max := d.Age.MustValue().yearsRange()
		years := min + rng.IntN(max-min)
		// Long-lived species age on their own scale.
		if s, ok := d.Species.Value(); ok {
			years = years * s.lifespanScale() / 100
		}
		return years
	})
	d.Name.FillWith(func() string {
		return names.GenerateName(rng, d.Species.MustValue(), d.Ethnicity.MustValue(), d.Gender.MustValue())
	})
}

// DisplayDescription renders the one-line description: "adult elf, he/him".
func (d *NpcData) DisplayDescription() string {
	var b strings.Builder
	if age, ok := d.Age.Value(); ok {
		b.WriteString(age.String())
		b.WriteByte(' ')
	}
	if species, ok := d.Species.Value(); ok {
		b.WriteString(species.String())
	} else {
		b.WriteString("character")
	}
	if gender, ok := d.Gender.Value(); ok {
		b.WriteString(", ")
		b.WriteString(gender.Pronouns())
	}
	return b.String()
}

// DisplaySummary renders the single-line markdown summary used in lists and
// conflict messages.
func (d *NpcData) DisplaySummary() string {
	name := d.Name.MustValue()
	if name == "" {
		return d.DisplayDescription()
	}
	return fmt.Sprintf("**%s** (%s)", name, d.DisplayDescription())
}

// DisplayDetails renders the full markdown sheet.
func (d *NpcData) DisplayDetails(rel *ThingRelations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Name.MustValue())
	fmt.Fprintf(&b, "*%s*\n\n", d.DisplayDescription())

	if species, ok := d.Species.Value(); ok {
		fmt.Fprintf(&b, "**Species:** %s\\\n", species)
	}
	if ethnicity, ok := d.Ethnicity.Value(); ok {
		fmt.Fprintf(&b, "**Ethnicity:** %s\\\n", ethnicity)
	}
	if gender, ok := d.Gender.Value(); ok {
		fmt.Fprintf(&b, "**Gender:** %s\\\n", gender)
	}
	if age, ok := d.Age.Value(); ok {
		if years, haveYears := d.AgeYears.Value(); haveYears {
			fmt.Fprintf(&b, "**Age:** %s (%d years)\\\n", age, years)
		} else {
			fmt.Fprintf(&b, "**Age:** %s\\\n", age)
		}
	}
	if rel != nil && rel.Location != nil {
		if parent := rel.LocationParent; parent != nil {
			fmt.Fprintf(&b, "**Location:** %s, %s\\\n",
				rel.Location.Name().MustValue(), parent.Name().MustValue())
		} else {
			fmt.Fprintf(&b, "**Location:** %s\\\n", rel.Location.Name().MustValue())
		}
	}

	return strings.TrimSuffix(b.String(), "\\\n") + "\n"
}

func (d *NpcData) applyDiff(diff ThingData) error {
	other, ok := diff.(*NpcData)
	if !ok {
		return fmt.Errorf("cannot apply %s diff to character", diff.Kind())
	}
	d.Name.ApplyDiff(&other.Name)
	d.Gender.ApplyDiff(&other.Gender)
	d.Age.ApplyDiff(&other.Age)
	d.AgeYears.ApplyDiff(&other.AgeYears)
	d.Species.ApplyDiff(&other.Species)
	d.Ethnicity.ApplyDiff(&other.Ethnicity)
	d.Location.ApplyDiff(&other.Location)
	return nil
}

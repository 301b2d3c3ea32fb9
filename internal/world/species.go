package world

import (
	"sort"
	"strings"
)

// Species is a playable-world species recognized by the create grammar.
type Species int

const (
	SpeciesHuman Species = iota
	SpeciesDragonborn
	SpeciesDwarf
	SpeciesElf
	SpeciesGnome
	SpeciesHalfElf
	SpeciesHalfOrc
	SpeciesHalfling
	SpeciesTiefling
	SpeciesWarforged
)

var speciesWords = map[string]Species{
	"human": SpeciesHuman, "dragonborn": SpeciesDragonborn,
	"dwarf": SpeciesDwarf, "dwarves": SpeciesDwarf,
	"elf": SpeciesElf, "elves": SpeciesElf,
	"gnome": SpeciesGnome, "half-elf": SpeciesHalfElf, "half-orc": SpeciesHalfOrc,
	"halfling": SpeciesHalfling, "tiefling": SpeciesTiefling,
	"warforged": SpeciesWarforged,
}

// SpeciesWords lists every word the grammar accepts as a species.
func SpeciesWords() []string {
	return sortedKeys(speciesWords)
}

// ParseSpecies maps a word from the grammar onto a Species.
func ParseSpecies(word string) (Species, bool) {
	s, ok := speciesWords[strings.ToLower(word)]
	return s, ok
}

func (s Species) String() string {
	switch s {
	case SpeciesHuman:
		return "human"
	case SpeciesDragonborn:
		return "dragonborn"
	case SpeciesDwarf:
		return "dwarf"
	case SpeciesElf:
		return "elf"
	case SpeciesGnome:
		return "gnome"
	case SpeciesHalfElf:
		return "half-elf"
	case SpeciesHalfOrc:
		return "half-orc"
	case SpeciesHalfling:
		return "halfling"
	case SpeciesTiefling:
		return "tiefling"
	default:
		return "warforged"
	}
}

// DefaultEthnicity returns the ethnicity assumed when demographics name a
// species with no ethnicity breakdown.
func (s Species) DefaultEthnicity() Ethnicity {
	switch s {
	case SpeciesDwarf:
		return EthnicityDwarvish
	case SpeciesElf, SpeciesHalfElf:
		return EthnicityElvish
	case SpeciesGnome:
		return EthnicityGnomish
	case SpeciesHalfling:
		return EthnicityHalfling
	case SpeciesTiefling:
		return EthnicityTiefling
	default:
		return EthnicityHuman
	}
}

// lifespanScale expresses the species' lifespan as a percentage of a
// human's, applied when deriving age in years from an age bracket.
func (s Species) lifespanScale() int {
	switch s {
	case SpeciesDwarf:
		return 435
	case SpeciesElf:
		return 930
	case SpeciesGnome:
		return 555
	case SpeciesHalfElf:
		return 230
	case SpeciesHalfling:
		return 185
	case SpeciesWarforged:
		return 40
	default:
		return 100
	}
}

// Ethnicity selects the naming tradition and cultural flavor of a
// generated character.
type Ethnicity int

const (
	EthnicityArabic Ethnicity = iota
	EthnicityCeltic
	EthnicityChinese
	EthnicityDwarvish
	EthnicityElvish
	EthnicityEnglish
	EthnicityFrench
	EthnicityGerman
	EthnicityGnomish
	EthnicityGreek
	EthnicityHalfling
	EthnicityHuman
	EthnicityIndian
	EthnicityJapanese
	EthnicityMesoamerican
	EthnicityNigerCongo
	EthnicityNorse
	EthnicityPolynesian
	EthnicityRoman
	EthnicitySlavic
	EthnicitySpanish
	EthnicityTiefling
)

var ethnicityWords = map[string]Ethnicity{
	"arabic": EthnicityArabic, "celtic": EthnicityCeltic, "chinese": EthnicityChinese,
	"dwarvish": EthnicityDwarvish, "elvish": EthnicityElvish, "english": EthnicityEnglish,
	"french": EthnicityFrench, "german": EthnicityGerman, "gnomish": EthnicityGnomish,
	"greek": EthnicityGreek, "indian": EthnicityIndian, "japanese": EthnicityJapanese,
	"mesoamerican": EthnicityMesoamerican, "niger-congo": EthnicityNigerCongo,
	"norse": EthnicityNorse, "polynesian": EthnicityPolynesian, "roman": EthnicityRoman,
	"slavic": EthnicitySlavic, "spanish": EthnicitySpanish,
}

// EthnicityWords lists every word the grammar accepts as an ethnicity.
// The halfling, tiefling and generic human ethnicities have no word here;
// they are reached only through the species.
func EthnicityWords() []string {
	return sortedKeys(ethnicityWords)
}

// ParseEthnicity maps a word from the grammar onto an Ethnicity.
func ParseEthnicity(word string) (Ethnicity, bool) {
	e, ok := ethnicityWords[strings.ToLower(word)]
	return e, ok
}

func (e Ethnicity) String() string {
	names := [...]string{
		"Arabic", "Celtic", "Chinese", "Dwarvish", "Elvish", "English",
		"French", "German", "Gnomish", "Greek", "Halfling", "Human",
		"Indian", "Japanese", "Mesoamerican", "Niger-Congo", "Norse",
		"Polynesian", "Roman", "Slavic", "Spanish", "Tiefling",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "Human"
}

// DefaultSpecies returns the species assumed when demographics name an
// ethnicity with no species breakdown.
func (e Ethnicity) DefaultSpecies() Species {
	switch e {
	case EthnicityDwarvish:
		return SpeciesDwarf
	case EthnicityElvish:
		return SpeciesElf
	case EthnicityGnomish:
		return SpeciesGnome
	case EthnicityHalfling:
		return SpeciesHalfling
	case EthnicityTiefling:
		return SpeciesTiefling
	default:
		return SpeciesHuman
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

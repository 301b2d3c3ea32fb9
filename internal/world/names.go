package world

import (
	"fmt"
	"math/rand/v2"
)

// NameGenerator produces names for generated entities. The production
// implementation ships small built-in word lists; richer syllable-table
// generators can be plugged in at the application boundary.
type NameGenerator interface {
	GenerateName(rng *rand.Rand, species Species, ethnicity Ethnicity, gender Gender) string
	GeneratePlaceName(rng *rand.Rand, subtype PlaceType) string
}

// ListNameGenerator is the built-in NameGenerator, sampling from fixed word
// lists keyed loosely by ethnicity.
type ListNameGenerator struct{}

var (
	givenMasculine = map[Ethnicity][]string{
		EthnicityElvish:   {"Aelar", "Erevan", "Laucian", "Mindartis", "Thamior", "Varis"},
		EthnicityDwarvish: {"Adrik", "Baern", "Dain", "Gardain", "Thorin", "Veit"},
		EthnicityGnomish:  {"Alston", "Boddynock", "Fonkin", "Namfoodle", "Wrenn", "Zook"},
		EthnicityHalfling: {"Alton", "Corrin", "Finnan", "Merric", "Perrin", "Wellby"},
		EthnicityNorse:    {"Bjorn", "Einar", "Gunnar", "Leif", "Sten", "Ulf"},
		EthnicityGreek:    {"Alexios", "Damon", "Kyros", "Nikias", "Odysseus", "Theron"},
		EthnicityHuman:    {"Aldric", "Bran", "Cole", "Dorian", "Garrett", "Marcus"},
	}
	givenFeminine = map[Ethnicity][]string{
		EthnicityElvish:   {"Adrie", "Caelynn", "Keyleth", "Lia", "Sariel", "Shanairra"},
		EthnicityDwarvish: {"Amber", "Bardryn", "Dagnal", "Eldeth", "Gunnloda", "Riswynn"},
		EthnicityGnomish:  {"Bimpnottin", "Caramip", "Duvamil", "Mardnab", "Roywyn", "Zanna"},
		EthnicityHalfling: {"Andry", "Bree", "Cora", "Lavinia", "Seraphina", "Verna"},
		EthnicityNorse:    {"Astrid", "Freya", "Gudrun", "Ingrid", "Sigrid", "Thora"},
		EthnicityGreek:    {"Alexandra", "Daphne", "Iris", "Penelope", "Thalia", "Xanthe"},
		EthnicityHuman:    {"Adela", "Beatrix", "Cordelia", "Elspeth", "Miriam", "Rowan"},
	}
	surnames = map[Ethnicity][]string{
		EthnicityElvish:   {"Amakiir", "Galanodel", "Meliamne", "Nailo", "Siannodel"},
		EthnicityDwarvish: {"Balderk", "Dankil", "Fireforge", "Ironfist", "Strakeln"},
		EthnicityGnomish:  {"Beren", "Daergel", "Folkor", "Nackle", "Timbers"},
		EthnicityHalfling: {"Brushgather", "Goodbarrel", "Greenbottle", "Tealeaf", "Underbough"},
		EthnicityNorse:    {"Axeborn", "Frostmane", "Stormcaller", "Wolfsson"},
		EthnicityGreek:    {"of Argos", "of Ithaca", "of Thebes"},
		EthnicityHuman:    {"Ashdown", "Blackwood", "Carver", "Fletcher", "Thatcher", "Weaver"},
	}

	innAdjectives = []string{"Prancing", "Golden", "Silver", "Drunken", "Wandering", "Sleeping", "Crooked", "Laughing"}
	innNouns      = []string{"Pony", "Dragon", "Gryphon", "Lantern", "Tankard", "Stag", "Kraken", "Rose"}
)

func nameList(lists map[Ethnicity][]string, ethnicity Ethnicity) []string {
	if list, ok := lists[ethnicity]; ok {
		return list
	}
	return lists[EthnicityHuman]
}

// GenerateName samples a given name and surname appropriate to the
// ethnicity. Non-binary and neuter characters draw from both given-name
// lists.
func (ListNameGenerator) GenerateName(rng *rand.Rand, _ Species, ethnicity Ethnicity, gender Gender) string {
	var given []string
	switch gender {
	case Masculine:
		given = nameList(givenMasculine, ethnicity)
	case Feminine:
		given = nameList(givenFeminine, ethnicity)
	default:
		given = append(nameList(givenMasculine, ethnicity), nameList(givenFeminine, ethnicity)...)
	}
	surname := nameList(surnames, ethnicity)

	return fmt.Sprintf("%s %s", given[rng.IntN(len(given))], surname[rng.IntN(len(surname))])
}

// GeneratePlaceName produces an inn-style name: "The Prancing Pony".
func (ListNameGenerator) GeneratePlaceName(rng *rand.Rand, _ PlaceType) string {
	return fmt.Sprintf("The %s %s",
		innAdjectives[rng.IntN(len(innAdjectives))],
		innNouns[rng.IntN(len(innNouns))])
}

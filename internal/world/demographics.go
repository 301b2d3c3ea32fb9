package world

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed demographics.yaml
var defaultDemographicsYAML []byte

// Group is one (species, ethnicity) population bucket.
type Group struct {
	Species   Species
	Ethnicity Ethnicity
}

// Demographics holds weighted population groups and drives random species
// and ethnicity selection. Values are immutable; the shift operations
// return adjusted copies.
type Demographics struct {
	groups map[Group]uint64
}

type demographicsFile struct {
	Groups []struct {
		Species   string `yaml:"species"`
		Ethnicity string `yaml:"ethnicity"`
		Weight    uint64 `yaml:"weight"`
	} `yaml:"groups"`
}

// NewDemographics builds a table from explicit groups.
func NewDemographics(groups map[Group]uint64) *Demographics {
	return &Demographics{groups: groups}
}

// DefaultDemographics loads the embedded population table.
func DefaultDemographics() (*Demographics, error) {
	var file demographicsFile
	if err := yaml.Unmarshal(defaultDemographicsYAML, &file); err != nil {
		return nil, fmt.Errorf("demographics: %w", err)
	}

	groups := make(map[Group]uint64, len(file.Groups))
	for _, g := range file.Groups {
		species, ok := ParseSpecies(g.Species)
		if !ok {
			return nil, fmt.Errorf("demographics: unknown species %q", g.Species)
		}
		ethnicity, ok := ParseEthnicity(g.Ethnicity)
		if !ok {
			// Species-flavored ethnicities have no grammar word; fall
			// back to the species default.
			ethnicity = species.DefaultEthnicity()
		}
		groups[Group{species, ethnicity}] += g.Weight
	}
	return &Demographics{groups: groups}, nil
}

// OnlySpecies returns a table containing only the given species.
func (d *Demographics) OnlySpecies(species Species) *Demographics {
	return d.shiftBy(
		func(g Group) bool { return g.Species == species },
		1,
		Group{species, species.DefaultEthnicity()},
	)
}

// OnlyEthnicity returns a table containing only the given ethnicity.
func (d *Demographics) OnlyEthnicity(ethnicity Ethnicity) *Demographics {
	return d.shiftBy(
		func(g Group) bool { return g.Ethnicity == ethnicity },
		1,
		Group{ethnicity.DefaultSpecies(), ethnicity},
	)
}

// ShiftSpecies skews the table towards the given species by amount in
// [0, 1]: 0 leaves the table untouched, 1 removes everything else.
func (d *Demographics) ShiftSpecies(species Species, amount float64) *Demographics {
	return d.shiftBy(
		func(g Group) bool { return g.Species == species },
		amount,
		Group{species, species.DefaultEthnicity()},
	)
}

// GenSpeciesEthnicity samples a (species, ethnicity) pair weighted by
// population. An empty table defaults to human.
func (d *Demographics) GenSpeciesEthnicity(rng *rand.Rand) (Species, Ethnicity) {
	var total uint64
	for _, w := range d.groups {
		total += w
	}
	if total == 0 {
		return SpeciesHuman, SpeciesHuman.DefaultEthnicity()
	}

	// Walk the groups in a stable order so a seeded generator samples
	// reproducibly.
	ordered := make([]Group, 0, len(d.groups))
	for g := range d.groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Species != ordered[j].Species {
			return ordered[i].Species < ordered[j].Species
		}
		return ordered[i].Ethnicity < ordered[j].Ethnicity
	})

	target := rng.Uint64N(total)
	var acc uint64
	for _, g := range ordered {
		acc += d.groups[g]
		if target < acc {
			return g.Species, g.Ethnicity
		}
	}
	// Unreachable with a consistent total.
	return SpeciesHuman, SpeciesHuman.DefaultEthnicity()
}

func (d *Demographics) shiftBy(match func(Group) bool, amount float64, fallback Group) *Demographics {
	if amount < 0 || amount > 1 {
		amount = math.Min(math.Max(amount, 0), 1)
	}

	var population, matched uint64
	for g, w := range d.groups {
		population += w
		if match(g) {
			matched += w
		}
	}

	groups := make(map[Group]uint64)
	if matched > 0 {
		for g, w := range d.groups {
			var next uint64
			if match(g) {
				next = uint64(math.Round(float64(w)*(1-amount) +
					float64(w)*amount*float64(population)/float64(matched)))
			} else {
				next = uint64(math.Round(float64(w) * (1 - amount)))
			}
			if next > 0 {
				groups[g] = next
			}
		}
	} else {
		for g, w := range d.groups {
			if next := uint64(math.Round(float64(w) * (1 - amount))); next > 0 {
				groups[g] = next
			}
		}
		if next := uint64(math.Round(float64(population) * amount)); next > 0 {
			groups[fallback] = next
		}
	}
	return &Demographics{groups: groups}
}

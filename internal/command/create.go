package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

// Create generates a character or place from a loosely phrased request:
// "create an elf named Legolas", "an elderly masculine human", "an inn".
// Attributes the user states are locked; everything else is sampled. Ages
// are given as bracket words; numeric ages such as "50-year-old" are not
// recognized.
type Create struct{}

type createMarker int

const (
	createMarkerKeyword createMarker = iota + 1
	createMarkerName
	createMarkerNpcNoun
	createMarkerPlaceType
	createMarkerAge
	createMarkerEthnicity
	createMarkerGender
	createMarkerSpecies
)

func namedToken() *token.Token {
	return token.Sequence(
		token.KeywordList([]string{"named", "called"}),
		token.AnyPhrase().Marked(createMarkerName),
	)
}

func (Create) Token() *token.Token {
	return token.Sequence(
		token.Optional(token.Keyword("create").Marked(createMarkerKeyword)),
		token.Or(
			token.AnyOf(
				token.KeywordList([]string{"a", "an"}),
				namedToken(),
				token.KeywordList(world.PlaceTypeWords()).Marked(createMarkerPlaceType),
			),
			token.AnyOf(
				token.KeywordList([]string{"a", "an"}),
				token.KeywordList([]string{"character", "npc", "person"}).Marked(createMarkerNpcNoun),
				namedToken(),
				token.KeywordList(world.AgeWords()).Marked(createMarkerAge),
				token.KeywordList(world.EthnicityWords()).Marked(createMarkerEthnicity),
				token.KeywordList(world.GenderWords()).Marked(createMarkerGender),
				token.KeywordList(world.SpeciesWords()).Marked(createMarkerSpecies),
			),
		),
	)
}

func (c Create) Autocomplete(fm token.FuzzyMatch, input string, _ *Meta) *Suggestion {
	if fm.Kind != token.MatchIncomplete || len(fm.List) == 0 {
		return nil
	}
	// Only suggest once the user has committed to the create keyword;
	// bare fragments like "a" are too ambiguous to be useful.
	if !fm.List.ContainsMarker(createMarkerKeyword) {
		return nil
	}

	// Complete the trailing partial word with its term and keep what the
	// user already typed.
	last := fm.List[len(fm.List)-1]
	if last.Term == "" || last.Term == "[name]" {
		return nil
	}
	start, _ := last.Substr.Range()
	term := strings.TrimLeft(input[:start]+last.Term, " ")

	return &Suggestion{Term: term, Description: "create a character or place"}
}

func (Create) Priority(list token.MatchList) (Priority, bool) {
	if list.ContainsMarker(createMarkerKeyword) {
		return PriorityCanonical, true
	}
	// A substantive word ("elf", "inn", "boy", "elderly") is enough to
	// read the input as a generation request, fuzzily.
	if len(list.FindMarkers(
		createMarkerNpcNoun,
		createMarkerSpecies,
		createMarkerPlaceType,
		createMarkerGender,
		createMarkerAge,
	)) > 0 {
		return PriorityFuzzy, true
	}
	return 0, false
}

func (Create) CanonicalForm(list token.MatchList) (string, bool) {
	var result string

	if part, ok := list.FindMarker(createMarkerPlaceType); ok {
		placeType, valid := world.ParsePlaceType(part.Term)
		if !valid {
			return "", false
		}
		result = placeType.String()
		if name, ok := list.FindMarker(createMarkerName); ok {
			result += fmt.Sprintf(" named %q", name.Substr.Str())
		}
	} else {
		var words []string
		if part, ok := list.FindMarker(createMarkerAge); ok {
			if age, valid := world.ParseAge(part.Term); valid {
				words = append(words, age.String())
			}
		}
		if part, ok := list.FindMarker(createMarkerGender); ok {
			if gender, valid := world.ParseGender(part.Term); valid {
				words = append(words, gender.String())
			}
		}
		if part, ok := list.FindMarker(createMarkerEthnicity); ok {
			if ethnicity, valid := world.ParseEthnicity(part.Term); valid {
				words = append(words, strings.ToLower(ethnicity.String()))
			}
		}
		if part, ok := list.FindMarker(createMarkerSpecies); ok {
			if species, valid := world.ParseSpecies(part.Term); valid {
				words = append(words, species.String())
			}
		} else {
			words = append(words, "character")
		}
		if name, ok := list.FindMarker(createMarkerName); ok {
			words = append(words, "named", name.Substr.Str())
		}
		result = strings.Join(words, " ")
	}

	article := "a"
	if strings.ContainsAny(result[:1], "aeiouAEIOU") {
		article = "an"
	}
	return fmt.Sprintf("create %s %s", article, result), true
}

func (c Create) Run(ctx context.Context, list token.MatchList, meta *Meta) (string, error) {
	data := c.parseThingData(list)

	// Generated names can collide with existing entries; resample a few
	// times before giving up.
	for attempt := 0; attempt < 10; attempt++ {
		output, retry, err := c.tryGenerate(ctx, data, list, meta)
		if retry {
			continue
		}
		return output, err
	}
	return "", fmt.Errorf("Couldn't create a unique %s name.", data.DisplayDescription())
}

func (c Create) parseThingData(list token.MatchList) world.ThingData {
	if list.ContainsMarker(createMarkerPlaceType) {
		return c.parsePlaceData(list)
	}
	return c.parseNpcData(list)
}

func (Create) parsePlaceData(list token.MatchList) *world.PlaceData {
	data := &world.PlaceData{}
	for _, part := range list.FindMarkers(createMarkerName, createMarkerPlaceType) {
		switch part.Marker {
		case createMarkerName:
			data.Name = world.LockedFieldOf(part.Substr.Str())
		case createMarkerPlaceType:
			if placeType, ok := world.ParsePlaceType(part.Term); ok {
				data.Subtype = world.LockedFieldOf(placeType)
			}
		}
	}
	return data
}

func (Create) parseNpcData(list token.MatchList) *world.NpcData {
	data := &world.NpcData{}
	for _, part := range list.FindMarkers(
		createMarkerAge,
		createMarkerEthnicity,
		createMarkerGender,
		createMarkerName,
		createMarkerSpecies,
	) {
		switch part.Marker {
		case createMarkerAge:
			if age, ok := world.ParseAge(part.Term); ok {
				data.Age = world.LockedFieldOf(age)
			}
		case createMarkerEthnicity:
			if ethnicity, ok := world.ParseEthnicity(part.Term); ok {
				data.Ethnicity = world.LockedFieldOf(ethnicity)
			}
		case createMarkerGender:
			if gender, ok := world.ParseGender(part.Term); ok {
				data.Gender = world.LockedFieldOf(gender)
			}
			// "boy" implies young, but "old boy" stays old: the implied
			// age only lands when age is not otherwise pinned.
			if age, ok := world.ImpliedAge(part.Term); ok {
				data.Age.Replace(age)
				data.Age.Lock()
			}
		case createMarkerName:
			data.Name = world.LockedFieldOf(part.Substr.Str())
		case createMarkerSpecies:
			if species, ok := world.ParseSpecies(part.Term); ok {
				data.Species = world.LockedFieldOf(species)
			}
		}
	}
	return data
}

// tryGenerate regenerates one candidate and attempts to store it. retry is
// true when a generated name collided and resampling could help.
func (c Create) tryGenerate(
	ctx context.Context,
	original world.ThingData,
	list token.MatchList,
	meta *Meta,
) (output string, retry bool, err error) {
	data := original.Clone()
	data.Regenerate(meta.Rng, meta.Demographics, meta.Names)

	nameField := data.NameField()
	gender := world.NonBinary
	if npc, ok := data.(*world.NpcData); ok {
		if g, set := npc.Gender.Value(); set {
			gender = g
		}
	}

	var (
		change  repo.Change
		message string
	)
	switch {
	case nameField.IsLocked() && nameField.IsSet():
		change = &repo.CreateAndSave{Data: data}
		message = fmt.Sprintf(
			"_Because you specified a name, %s has been automatically added to your `journal`. Use `undo` to remove %s._",
			nameField.MustValue(), them(data, gender),
		)
	case nameField.IsSet():
		meta.QueueAlias(NewAlias(
			token.Keyword("more"),
			"generate more suggestions",
			AliasCreateMore{Data: original.Clone()},
		))
		change = &repo.Create{Data: data}
		message = fmt.Sprintf(
			"_%s has not yet been saved. Use ~save~ to save %s to your `journal`. For more suggestions, type ~more~._",
			nameField.MustValue(), them(data, gender),
		)
	default:
		change = &repo.Create{Data: data}
	}

	outcome, err := meta.Repo.Modify(ctx, change)
	if err != nil {
		var conflict *repo.NameAlreadyExistsError
		switch {
		case errors.As(err, &conflict):
			if original.NameField().IsLocked() {
				return "", false, fmt.Errorf(
					"That name is already in use by %s.",
					conflict.Existing.DisplaySummary(),
				)
			}
			return "", true, nil
		case errors.Is(err, repo.ErrMissingName):
			canonical, _ := c.CanonicalForm(list)
			return "", false, fmt.Errorf(
				"There is no name generator implemented for that type. You must specify your own name using `%s named [name]`.",
				canonical,
			)
		default:
			return "", false, fmt.Errorf("An error occurred.")
		}
	}

	if !original.NameField().IsLocked() {
		name := outcome.Record.Thing.Name().MustValue()
		meta.QueueAlias(NewAlias(
			token.Keyword("save"),
			fmt.Sprintf("save %s", name),
			AliasSave{Name: name},
		))
	}

	relations := meta.Repo.LoadRelations(ctx, &outcome.Record.Thing)
	output = outcome.Record.Thing.DisplayDetails(relations)
	if message != "" {
		output += "\n\n" + message
	}
	return output, false, nil
}

// createMore regenerates up to ten alternatives for the original request
// and installs numbered aliases to load them.
func createMore(ctx context.Context, original world.ThingData, meta *Meta) (string, error) {
	var things []world.Thing

	for _, digit := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"} {
		for attempt := 0; attempt < 10; attempt++ {
			data := original.Clone()
			data.Regenerate(meta.Rng, meta.Demographics, meta.Names)

			outcome, err := meta.Repo.Modify(ctx, &repo.Create{Data: data})
			if err != nil {
				var conflict *repo.NameAlreadyExistsError
				if errors.As(err, &conflict) || errors.Is(err, repo.ErrMissingName) {
					continue
				}
				return "", fmt.Errorf("An error occurred.")
			}

			name := outcome.Record.Thing.Name().MustValue()
			meta.QueueAlias(NewAlias(
				token.Keyword(digit),
				fmt.Sprintf("load %s", name),
				AliasLoad{Name: name},
			))
			things = append(things, outcome.Record.Thing)
			break
		}
	}

	if len(things) == 0 {
		return "", fmt.Errorf("Couldn't create a unique %s name.", original.DisplayDescription())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Alternative suggestions for %q", original.DisplayDescription())
	for i := range things {
		separator := "\\\n"
		if i == 0 {
			separator = "\n\n"
		}
		fmt.Fprintf(&b, "%s~%d~ %s", separator, (i+1)%10, things[i].DisplaySummary())
	}
	return b.String(), nil
}

func them(data world.ThingData, gender world.Gender) string {
	if data.Kind() == world.KindPlace {
		return "it"
	}
	return gender.Them()
}

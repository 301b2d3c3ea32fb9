package command

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/store"
	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

func newTestMeta(t *testing.T) *Meta {
	t.Helper()
	repository := repo.New(store.NewMemoryStore(), repo.Limits{})
	repository.Init(context.Background())

	demographics, err := world.DefaultDemographics()
	require.NoError(t, err)

	return &Meta{
		Repo:         repository,
		Demographics: demographics,
		Names:        world.ListNameGenerator{},
		Rng:          rand.New(rand.NewPCG(7, 11)),
	}
}

func seedRecent(t *testing.T, meta *Meta, data world.ThingData) repo.Record {
	t.Helper()
	outcome, err := meta.Repo.ModifyWithoutUndo(context.Background(), &repo.Create{Data: data})
	require.NoError(t, err)
	return outcome.Record
}

func seedSaved(t *testing.T, meta *Meta, data world.ThingData) repo.Record {
	t.Helper()
	outcome, err := meta.Repo.ModifyWithoutUndo(context.Background(), &repo.CreateAndSave{Data: data})
	require.NoError(t, err)
	return outcome.Record
}

func suggestionTerms(suggestions []Suggestion) []string {
	terms := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		terms = append(terms, s.Term)
	}
	return terms
}

func TestAboutCommand(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	output, err := Run(ctx, reg, meta, "about")
	require.NoError(t, err)
	assert.Contains(t, output, "About")

	// Case-insensitive.
	output, err = Run(ctx, reg, meta, "ABOUT")
	require.NoError(t, err)
	assert.Contains(t, output, "About")
}

func TestAutocompleteAbout(t *testing.T) {
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	suggestions := Autocomplete(context.Background(), reg, meta, "a")
	require.Len(t, suggestions, 1)
	assert.Equal(t, Suggestion{Term: "about", Description: "about lorekeeper"}, suggestions[0])
}

func TestAutocompleteEmptyInput(t *testing.T) {
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	assert.Empty(t, Autocomplete(context.Background(), reg, meta, ""))
	assert.Empty(t, Autocomplete(context.Background(), reg, meta, "   "))
}

func TestUnknownCommand(t *testing.T) {
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	_, err := Run(context.Background(), reg, meta, "xyzzy plugh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Unknown command: "xyzzy plugh"`)
}

func TestDispatcherDeterminism(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()
	seedSaved(t, meta, &world.NpcData{Name: world.LockedFieldOf("Odysseus")})

	first := Autocomplete(ctx, reg, meta, "lo")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Autocomplete(ctx, reg, meta, "lo"))
	}
}

// fakeCommand matches a fixed keyword at a fixed priority, for dispatcher
// plumbing tests.
type fakeCommand struct {
	keyword   string
	priority  Priority
	canonical string
	ran       *bool
}

func (f fakeCommand) Token() *token.Token {
	return token.Keyword(f.keyword)
}

func (f fakeCommand) Autocomplete(token.FuzzyMatch, string, *Meta) *Suggestion {
	return nil
}

func (f fakeCommand) Priority(token.MatchList) (Priority, bool) {
	return f.priority, true
}

func (f fakeCommand) CanonicalForm(token.MatchList) (string, bool) {
	return f.canonical, true
}

func (f fakeCommand) Run(context.Context, token.MatchList, *Meta) (string, error) {
	if f.ran != nil {
		*f.ran = true
	}
	return "ran " + f.canonical, nil
}

func TestDispatcherCanonicalBeatsFuzzy(t *testing.T) {
	meta := newTestMeta(t)
	var canonicalRan, fuzzyRan bool
	reg := NewRegistry(
		fakeCommand{keyword: "spell", priority: PriorityFuzzy, canonical: "cast spell", ran: &fuzzyRan},
		fakeCommand{keyword: "spell", priority: PriorityCanonical, canonical: "spell", ran: &canonicalRan},
	)

	output, err := Run(context.Background(), reg, meta, "spell")
	require.NoError(t, err)

	assert.True(t, canonicalRan)
	assert.False(t, fuzzyRan)
	assert.Contains(t, output, "ran spell")
	assert.Contains(t, output, "There are other possible interpretations of this command. Did you mean:")
	assert.Contains(t, output, "* `cast spell`")

	// The alternates stay queryable for the suggest entry point, until
	// the next unambiguous run clears them.
	assert.Equal(t, []string{"cast spell"}, meta.LastAlternates())
}

func TestDispatcherMultipleFuzzyRefusesToRun(t *testing.T) {
	meta := newTestMeta(t)
	var firstRan, secondRan bool
	reg := NewRegistry(
		fakeCommand{keyword: "spell", priority: PriorityFuzzy, canonical: "cast spell", ran: &firstRan},
		fakeCommand{keyword: "spell", priority: PriorityFuzzy, canonical: "lookup spell", ran: &secondRan},
	)

	_, err := Run(context.Background(), reg, meta, "spell")
	require.Error(t, err)

	assert.False(t, firstRan)
	assert.False(t, secondRan)
	assert.Contains(t, err.Error(), "several possible interpretations")
	assert.Contains(t, err.Error(), "* `cast spell`")
	assert.Contains(t, err.Error(), "* `lookup spell`")
}

func TestDispatcherSingleFuzzyRuns(t *testing.T) {
	meta := newTestMeta(t)
	var ran bool
	reg := NewRegistry(
		fakeCommand{keyword: "spell", priority: PriorityFuzzy, canonical: "cast spell", ran: &ran},
	)

	output, err := Run(context.Background(), reg, meta, "spell")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "ran cast spell", output)
}

func TestLoadCommand(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	seedRecent(t, meta, &world.NpcData{
		Name:   world.LockedFieldOf("Odysseus"),
		Gender: world.FieldOf(world.Masculine),
	})
	olympus := seedSaved(t, meta, &world.PlaceData{
		Name:    world.LockedFieldOf("Olympus"),
		Subtype: world.FieldOf(world.PlaceCity),
	})

	// Case-insensitive, keyword form.
	output, err := Run(ctx, reg, meta, "load OLYMPUS")
	require.NoError(t, err)
	assert.Contains(t, output, "# Olympus")

	record, err := meta.Repo.GetByUUID(ctx, olympus.Thing.UUID)
	require.NoError(t, err)
	assert.Equal(t, olympus.Thing.UUID, record.Thing.UUID)

	// Bare name is a fuzzy reading, still the only one, so it runs.
	output, err = Run(ctx, reg, meta, "Odysseus")
	require.NoError(t, err)
	assert.Contains(t, output, "# Odysseus")
	assert.Contains(t, output, "has not yet been saved")

	// The load registered a save alias for the unsaved record.
	require.Len(t, reg.Aliases(), 1)
	output, err = Run(ctx, reg, meta, "save")
	require.NoError(t, err)
	assert.Contains(t, output, "Saved Odysseus")

	_, err = Run(ctx, reg, meta, "load NOBODY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `No matches for "NOBODY"`)
}

func TestLoadAutocomplete(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()
	seedSaved(t, meta, &world.NpcData{
		Name: world.LockedFieldOf("Odysseus"),
		Age:  world.FieldOf(world.AgeAdult),
	})

	terms := suggestionTerms(Autocomplete(ctx, reg, meta, "load "))
	assert.Contains(t, terms, "load [name]")

	terms = suggestionTerms(Autocomplete(ctx, reg, meta, "load o"))
	assert.Contains(t, terms, "load Odysseus")

	// Typing a bare prefix offers the record directly.
	terms = suggestionTerms(Autocomplete(ctx, reg, meta, "ody"))
	assert.Contains(t, terms, "Odysseus")
}

func TestSaveCommand(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()
	seedRecent(t, meta, &world.NpcData{Name: world.LockedFieldOf("Potato Johnson")})

	output, err := Run(ctx, reg, meta, "save Potato Johnson")
	require.NoError(t, err)
	assert.Contains(t, output, "Saved Potato Johnson")

	records := meta.Repo.Journal()
	require.Len(t, records, 1)
	assert.True(t, records[0].Thing.IsSaved())
	assert.Empty(t, meta.Repo.Recent())
}

func TestSaveAutocomplete(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()
	seedRecent(t, meta, &world.NpcData{Name: world.LockedFieldOf("Cohen the Barbarian")})
	seedSaved(t, meta, &world.NpcData{Name: world.LockedFieldOf("Cut-Me-Own-Throat Dibbler")})

	suggestions := Autocomplete(ctx, reg, meta, "save c")
	terms := suggestionTerms(suggestions)

	// Only the unsaved record is offered.
	assert.Contains(t, terms, "save Cohen the Barbarian")
	assert.NotContains(t, terms, "save Cut-Me-Own-Throat Dibbler")
}

func TestJournalCommand(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	output, err := Run(ctx, reg, meta, "journal")
	require.NoError(t, err)
	assert.Contains(t, output, "journal is empty")

	seedSaved(t, meta, &world.NpcData{Name: world.LockedFieldOf("Odysseus")})
	seedSaved(t, meta, &world.PlaceData{
		Name:    world.LockedFieldOf("Olympus"),
		Subtype: world.FieldOf(world.PlaceCity),
	})

	output, err = Run(ctx, reg, meta, "journal")
	require.NoError(t, err)
	assert.Contains(t, output, "## Characters")
	assert.Contains(t, output, "Odysseus")
	assert.Contains(t, output, "## Places")
	assert.Contains(t, output, "Olympus")
}

func TestTimeCommand(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	output, err := Run(ctx, reg, meta, "time")
	require.NoError(t, err)
	assert.Contains(t, output, "day 1 at 8:00:00 am")

	output, err = Run(ctx, reg, meta, "+1d")
	require.NoError(t, err)
	assert.Contains(t, output, "day 2 at 8:00:00 am")

	output, err = Run(ctx, reg, meta, "-2h")
	require.NoError(t, err)
	assert.Contains(t, output, "day 2 at 6:00:00 am")
}

func TestUndoRedoCommands(t *testing.T) {
	ctx := context.Background()
	meta := newTestMeta(t)
	reg := DefaultRegistry()

	_, err := Run(ctx, reg, meta, "undo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nothing to undo")

	_, err = Run(ctx, reg, meta, "create a character named Sue")
	require.NoError(t, err)

	output, err := Run(ctx, reg, meta, "undo")
	require.NoError(t, err)
	assert.Contains(t, output, "undid creating Sue")
	assert.Empty(t, meta.Repo.Journal())

	output, err = Run(ctx, reg, meta, "redo")
	require.NoError(t, err)
	assert.Contains(t, output, "redid creating Sue")
	require.Len(t, meta.Repo.Journal(), 1)

	_, err = Run(ctx, reg, meta, "redo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nothing to redo")
}

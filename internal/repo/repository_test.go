package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

func npcData(name string) *world.NpcData {
	return &world.NpcData{
		Name:    world.FieldOf(name),
		Species: world.FieldOf(world.SpeciesHuman),
	}
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := New(store.NewMemoryStore(), Limits{})
	r.Init(context.Background())
	require.True(t, r.StoreEnabled())
	return r
}

func TestCreateUndoRedo(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	outcome, err := r.Modify(ctx, &Create{Data: npcData("Sue")})
	require.NoError(t, err)
	assert.True(t, outcome.Record.IsUnsaved())
	assert.False(t, outcome.Record.Thing.IsSaved())

	record, err := r.GetByName(ctx, "sue")
	require.NoError(t, err)
	assert.Equal(t, "Sue", record.Thing.Name().MustValue())

	// Undo removes her and populates the redo slot.
	_, ok, err := r.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = r.GetByName(ctx, "sue")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NotNil(t, r.RedoChange())

	// Redo restores her, unsaved as before.
	outcome, ok, err = r.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, outcome.Record.IsUnsaved())
	record, err = r.GetByName(ctx, "sue")
	require.NoError(t, err)
	assert.Equal(t, "Sue", record.Thing.Name().MustValue())
	assert.Nil(t, r.RedoChange())
}

func TestUndoEmptyAndRedoEmpty(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, ok, err := r.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.Redo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModifyClearsRedo(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &Create{Data: npcData("Sue")})
	require.NoError(t, err)
	_, _, err = r.Undo(ctx)
	require.NoError(t, err)
	require.NotNil(t, r.RedoChange())

	_, err = r.Modify(ctx, &Create{Data: npcData("Bill")})
	require.NoError(t, err)
	assert.Nil(t, r.RedoChange())
}

func TestUndoHistoryBounded(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	for i := 0; i < DefaultUndoMax+1; i++ {
		_, err := r.Modify(ctx, &Create{Data: npcData(fmt.Sprintf("npc-%d", i))})
		require.NoError(t, err)
	}
	assert.Len(t, r.UndoHistory(), DefaultUndoMax)

	// The oldest change has been forgotten: undo drains exactly undoMax
	// entries, leaving npc-0 in place.
	for i := 0; i < DefaultUndoMax; i++ {
		_, ok, err := r.Undo(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, ok, err := r.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.GetByName(ctx, "npc-0")
	assert.NoError(t, err)
	_, err = r.GetByName(ctx, "npc-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentBufferBounded(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemoryStore(), Limits{RecentMax: 3})
	r.Init(ctx)

	for i := 0; i < 5; i++ {
		_, err := r.Modify(ctx, &Create{Data: npcData(fmt.Sprintf("npc-%d", i))})
		require.NoError(t, err)
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "npc-2", recent[0].Thing.Name().MustValue())
	assert.Equal(t, "npc-4", recent[2].Thing.Name().MustValue())
}

func TestNoDuplicateNames(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &Create{Data: npcData("Sue")})
	require.NoError(t, err)

	_, err = r.Modify(ctx, &Create{Data: npcData("SUE")})
	var changeErr *ChangeError
	require.ErrorAs(t, err, &changeErr)

	var conflict *NameAlreadyExistsError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Sue", conflict.Existing.Name().MustValue())

	// Also across journal and recent.
	_, err = r.Modify(ctx, &CreateAndSave{Data: npcData("sue")})
	require.ErrorAs(t, err, &conflict)
}

func TestCreateMissingName(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &Create{Data: &world.NpcData{}})
	assert.ErrorIs(t, err, ErrMissingName)

	// The failed change rides along for the caller.
	var changeErr *ChangeError
	require.ErrorAs(t, err, &changeErr)
	_, isCreate := changeErr.Change.(*Create)
	assert.True(t, isCreate)
}

func TestSaveUnsaveInverse(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &Create{Data: npcData("Odysseus")})
	require.NoError(t, err)

	outcome, err := r.Modify(ctx, &Save{Name: "odysseus"})
	require.NoError(t, err)
	require.True(t, outcome.Record.IsSaved())
	savedUUID := outcome.Record.Thing.UUID
	require.NotEqual(t, uuid.Nil, savedUUID)

	inverse, ok := outcome.Inverse.(*Unsave)
	require.True(t, ok)
	assert.Equal(t, savedUUID, inverse.UUID)
	assert.Equal(t, "Odysseus", inverse.Name)

	// Undo the save: back to recent, uuid cleared.
	undoOutcome, ok2, err := r.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.True(t, undoOutcome.Record.IsUnsaved())
	assert.False(t, undoOutcome.Record.Thing.IsSaved())
	assert.Empty(t, r.Journal())
	require.Len(t, r.Recent(), 1)

	// Redo the save.
	redoOutcome, ok3, err := r.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok3)
	assert.True(t, redoOutcome.Record.IsSaved())
	assert.Empty(t, r.Recent())
}

func TestCreateAndSavePersists(t *testing.T) {
	ctx := context.Background()
	backing := store.NewMemoryStore()
	r := New(backing, Limits{})
	r.Init(ctx)

	outcome, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Penelope")})
	require.NoError(t, err)
	require.True(t, outcome.Record.IsSaved())
	assert.Equal(t, 1, backing.Len())

	// Undo deletes from the store too.
	_, _, err = r.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, backing.Len())
}

func TestDeleteInversePreservesUUID(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	outcome, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Circe")})
	require.NoError(t, err)
	originalUUID := outcome.Record.Thing.UUID

	_, err = r.Modify(ctx, &Delete{ID: ByName("circe"), Name: "Circe"})
	require.NoError(t, err)
	_, err = r.GetByName(ctx, "circe")
	assert.ErrorIs(t, err, ErrNotFound)

	// Undo recreates the journal entry with the same uuid.
	undoOutcome, _, err := r.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, originalUUID, undoOutcome.Record.Thing.UUID)

	record, err := r.GetByUUID(ctx, originalUUID)
	require.NoError(t, err)
	assert.Equal(t, "Circe", record.Thing.Name().MustValue())
}

func TestEditJournalThing(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	outcome, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Telemachus")})
	require.NoError(t, err)
	id := outcome.Record.Thing.UUID

	diff := &world.NpcData{Age: world.LockedFieldOf(world.AgeAdolescent)}
	editOutcome, err := r.Modify(ctx, &Edit{Name: "Telemachus", ID: ByUUID(id), Diff: diff})
	require.NoError(t, err)

	record, err := r.GetByUUID(ctx, id)
	require.NoError(t, err)
	npc := record.Thing.Data.(*world.NpcData)
	assert.Equal(t, world.AgeAdolescent, npc.Age.MustValue())
	assert.True(t, npc.Age.IsLocked())

	// The inverse edit restores the prior (unset) age.
	inverse, ok := editOutcome.Inverse.(*Edit)
	require.True(t, ok)
	assert.True(t, inverse.ID.IsUUID())

	_, _, err = r.Undo(ctx)
	require.NoError(t, err)
	record, err = r.GetByUUID(ctx, id)
	require.NoError(t, err)
	npc = record.Thing.Data.(*world.NpcData)
	assert.False(t, npc.Age.IsSet())
	assert.False(t, npc.Age.IsLocked())
}

func TestEditRecentThingPromotes(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &Create{Data: npcData("Eumaeus")})
	require.NoError(t, err)

	diff := &world.NpcData{Age: world.LockedFieldOf(world.AgeElderly)}
	outcome, err := r.Modify(ctx, &Edit{Name: "Eumaeus", ID: ByName("eumaeus"), Diff: diff})
	require.NoError(t, err)

	// The edit promoted the thing into the journal.
	assert.True(t, outcome.Record.IsSaved())
	_, ok := outcome.Inverse.(*EditAndUnsave)
	assert.True(t, ok)

	// Undo both edits and unsaves.
	_, _, err = r.Undo(ctx)
	require.NoError(t, err)
	require.Len(t, r.Recent(), 1)
	npc := r.Recent()[0].Thing.Data.(*world.NpcData)
	assert.False(t, npc.Age.IsSet())
}

func TestEditKindMismatch(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Calypso")})
	require.NoError(t, err)

	_, err = r.Modify(ctx, &Edit{
		Name: "Calypso",
		ID:   ByName("calypso"),
		Diff: &world.PlaceData{Subtype: world.FieldOf(world.PlaceTemple)},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNullStoreFailures(t *testing.T) {
	ctx := context.Background()
	r := New(store.NullStore{}, Limits{})
	r.Init(ctx)
	// Init falls back to a memory store when nothing can be read.
	assert.False(t, r.StoreEnabled())

	// Creating in recent still works; the store is only touched on save.
	_, err := r.Modify(ctx, &Create{Data: npcData("Hermes")})
	require.NoError(t, err)

	// Force the null store back in to exercise write failures.
	r.dataStore = store.NullStore{}
	_, err = r.Modify(ctx, &Save{Name: "hermes"})
	assert.ErrorIs(t, err, ErrDataStoreFailed)

	// The thing is still in recent, and the undo log gained nothing.
	require.Len(t, r.Recent(), 1)
	assert.Len(t, r.UndoHistory(), 1) // only the Create

	_, err = r.Modify(ctx, &CreateAndSave{Data: npcData("Athena")})
	assert.ErrorIs(t, err, ErrDataStoreFailed)
}

func TestUndoFailureRestoresHistory(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Poseidon")})
	require.NoError(t, err)
	require.Len(t, r.UndoHistory(), 1)

	// Sabotage the store so the undo (a journal delete) fails.
	r.dataStore = store.NullStore{}
	_, ok, err := r.Undo(ctx)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrDataStoreFailed)

	// The entry is back on the log for a retry.
	assert.Len(t, r.UndoHistory(), 1)
	assert.Nil(t, r.RedoChange())
}

func TestGetByNameStart(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.Modify(ctx, &CreateAndSave{Data: npcData("Cohen the Barbarian")})
	require.NoError(t, err)
	_, err = r.Modify(ctx, &Create{Data: npcData("Copperhead")})
	require.NoError(t, err)
	_, err = r.Modify(ctx, &Create{Data: npcData("Rincewind")})
	require.NoError(t, err)

	records, err := r.GetByNameStart(ctx, "co")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Cohen the Barbarian", records[0].Thing.Name().MustValue())
	assert.Equal(t, "Copperhead", records[1].Thing.Name().MustValue())
}

func TestLoadRelations(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	town, err := r.Modify(ctx, &CreateAndSave{Data: &world.PlaceData{
		Name:    world.FieldOf("Bree"),
		Subtype: world.FieldOf(world.PlaceTown),
	}})
	require.NoError(t, err)

	inn, err := r.Modify(ctx, &CreateAndSave{Data: &world.PlaceData{
		Name:    world.FieldOf("The Prancing Pony"),
		Subtype: world.FieldOf(world.PlaceInn),
		Parent:  world.FieldOf(town.Record.Thing.UUID),
	}})
	require.NoError(t, err)

	npc := npcData("Barliman Butterbur")
	npc.Location = world.FieldOf(inn.Record.Thing.UUID)
	created, err := r.Modify(ctx, &Create{Data: npc})
	require.NoError(t, err)

	relations := r.LoadRelations(ctx, &created.Record.Thing)
	require.NotNil(t, relations)
	require.NotNil(t, relations.Location)
	assert.Equal(t, "The Prancing Pony", relations.Location.Name().MustValue())
	require.NotNil(t, relations.LocationParent)
	assert.Equal(t, "Bree", relations.LocationParent.Name().MustValue())

	// Dangling references resolve to nil, not errors.
	orphan := npcData("Nobody Special")
	orphan.Location = world.FieldOf(uuid.New())
	orphanThing := world.NewThing(orphan)
	assert.Nil(t, r.LoadRelations(ctx, &orphanThing))
}

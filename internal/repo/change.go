// Package repo is the journal repository: it holds saved things keyed by
// UUID, a bounded buffer of recently generated (unsaved) things, and a
// bounded log of reversible changes driving undo and redo. Every mutation
// is expressed as a Change and funnelled through Modify.
package repo

import (
	"fmt"

	"github.com/google/uuid"

	"lorekeeper/internal/world"
)

// ID identifies a thing either by journal UUID or, for unsaved things, by
// case-insensitive name.
type ID struct {
	UUID uuid.UUID
	Name string
}

// ByName builds a name ID.
func ByName(name string) ID {
	return ID{Name: name}
}

// ByUUID builds a UUID ID.
func ByUUID(id uuid.UUID) ID {
	return ID{UUID: id}
}

// IsUUID reports whether the ID carries a UUID.
func (id ID) IsUUID() bool {
	return id.UUID != uuid.Nil
}

func (id ID) String() string {
	if id.IsUUID() {
		return id.UUID.String()
	}
	return id.Name
}

// Change describes one reversible mutation of the repository. Applying a
// change through Modify yields its exact inverse, which is what the undo
// log stores.
type Change interface {
	// ChangeName returns the name of the affected thing, for display.
	ChangeName() string
	// DescribeRedo states the change in the forward direction ("creating X").
	DescribeRedo() string
	// DescribeUndo states the action this change reverts when it sits in
	// the undo log ("deleting X" for a stored Create).
	DescribeUndo() string

	isChange()
}

// Create pushes a new thing into the recent buffer.
// Inverse: Delete by name.
type Create struct {
	Data world.ThingData
}

// CreateAndSave persists a new thing straight to the journal. A zero UUID
// is assigned on apply; the inverse Delete preserves the assignment.
type CreateAndSave struct {
	Data world.ThingData
	UUID uuid.UUID
}

// Delete removes a thing from the journal or the recent buffer.
// Inverse: CreateAndSave (journal) or Create (recent).
type Delete struct {
	ID   ID
	Name string
}

// Save promotes a recent thing into the journal, assigning a UUID.
// Inverse: Unsave.
type Save struct {
	Name string
}

// Unsave moves a journal thing back into the recent buffer, clearing its
// UUID and removing it from the data store. Reachable as the inverse of
// Save, or as the remaining work of an EditAndUnsave whose unsave failed.
type Unsave struct {
	Name string
	UUID uuid.UUID
}

// Edit applies a field diff to a thing. Editing a recent thing by name
// also promotes it to the journal, which is why the inverse can be
// EditAndUnsave.
type Edit struct {
	Name string
	ID   ID
	Diff world.ThingData
}

// EditAndUnsave applies a field diff and then unsaves the thing. Only
// reachable as the inverse of an Edit that promoted a recent thing.
type EditAndUnsave struct {
	Name string
	UUID uuid.UUID
	Diff world.ThingData
}

func (c *Create) isChange()        {}
func (c *CreateAndSave) isChange() {}
func (c *Delete) isChange()        {}
func (c *Save) isChange()          {}
func (c *Unsave) isChange()        {}
func (c *Edit) isChange()          {}
func (c *EditAndUnsave) isChange() {}

func (c *Create) ChangeName() string        { return c.Data.NameField().MustValue() }
func (c *CreateAndSave) ChangeName() string { return c.Data.NameField().MustValue() }
func (c *Delete) ChangeName() string        { return c.Name }
func (c *Save) ChangeName() string          { return c.Name }
func (c *Unsave) ChangeName() string        { return c.Name }
func (c *Edit) ChangeName() string          { return c.Name }
func (c *EditAndUnsave) ChangeName() string { return c.Name }

func (c *Create) DescribeRedo() string {
	return fmt.Sprintf("creating %s", c.ChangeName())
}
func (c *CreateAndSave) DescribeRedo() string {
	return fmt.Sprintf("creating %s", c.ChangeName())
}
func (c *Delete) DescribeRedo() string {
	return fmt.Sprintf("deleting %s", c.Name)
}
func (c *Save) DescribeRedo() string {
	return fmt.Sprintf("saving %s to journal", c.Name)
}
func (c *Unsave) DescribeRedo() string {
	return fmt.Sprintf("removing %s from journal", c.Name)
}
func (c *Edit) DescribeRedo() string {
	return fmt.Sprintf("editing %s", c.Name)
}
func (c *EditAndUnsave) DescribeRedo() string {
	return fmt.Sprintf("editing %s", c.Name)
}

// The undo descriptions are backward on purpose: a Create sitting in the
// undo log is there because the user deleted something.
func (c *Create) DescribeUndo() string {
	return fmt.Sprintf("deleting %s", c.ChangeName())
}
func (c *CreateAndSave) DescribeUndo() string {
	return fmt.Sprintf("deleting %s", c.ChangeName())
}
func (c *Delete) DescribeUndo() string {
	return fmt.Sprintf("creating %s", c.Name)
}
func (c *Save) DescribeUndo() string {
	return fmt.Sprintf("removing %s from journal", c.Name)
}
func (c *Unsave) DescribeUndo() string {
	return fmt.Sprintf("saving %s to journal", c.Name)
}
func (c *Edit) DescribeUndo() string {
	return fmt.Sprintf("editing %s", c.Name)
}
func (c *EditAndUnsave) DescribeUndo() string {
	return fmt.Sprintf("editing %s", c.Name)
}

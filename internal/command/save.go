package command

import (
	"context"
	"errors"
	"fmt"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

// Save promotes a recent entry into the journal.
type Save struct{}

type saveMarker int

const saveMarkerName saveMarker = 1

func (Save) Token() *token.Token {
	return token.Sequence(
		token.Keyword("save"),
		token.Name().Marked(saveMarkerName),
	)
}

func (Save) Autocomplete(fm token.FuzzyMatch, _ string, _ *Meta) *Suggestion {
	part, ok := fm.List.FindMarker(saveMarkerName)
	if !ok || part.Record == nil || part.Record.IsSaved() {
		return nil
	}

	name := part.Record.Thing.Name().MustValue()
	return &Suggestion{
		Term:        "save " + name,
		Description: fmt.Sprintf("save %s to journal", part.Record.Thing.Kind()),
	}
}

func (Save) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (Save) CanonicalForm(list token.MatchList) (string, bool) {
	part, ok := list.FindMarker(saveMarkerName)
	if !ok || part.Record == nil {
		return "", false
	}
	return fmt.Sprintf("save %q", part.Record.Thing.Name().MustValue()), true
}

func (Save) Run(ctx context.Context, list token.MatchList, meta *Meta) (string, error) {
	part, ok := list.FindMarker(saveMarkerName)
	if !ok || part.Record == nil {
		return "", fmt.Errorf("Couldn't save.")
	}
	return saveByName(ctx, part.Record.Thing.Name().MustValue(), meta)
}

func saveByName(ctx context.Context, name string, meta *Meta) (string, error) {
	outcome, err := meta.Repo.Modify(ctx, &repo.Save{Name: name})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return "", fmt.Errorf("No matches for %q.", name)
		case errors.Is(err, repo.ErrDataStoreFailed):
			return "", fmt.Errorf("An error occurred.")
		default:
			return "", fmt.Errorf("Couldn't save %q.", name)
		}
	}

	thing := outcome.Record.Thing
	return fmt.Sprintf(
		"_Saved %s to your `journal`. Use `undo` to reverse this._",
		thing.Name().MustValue(),
	), nil
}

// pronounFor picks the objective pronoun for prose about a record.
func pronounFor(record *repo.Record) string {
	if npc, ok := record.Thing.Data.(*world.NpcData); ok {
		if gender, set := npc.Gender.Value(); set {
			return gender.Them()
		}
		return "them"
	}
	return "it"
}

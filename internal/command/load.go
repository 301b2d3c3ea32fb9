package command

import (
	"context"
	"fmt"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/token"
)

// Load displays a saved or recent entry by name. The "load" keyword is
// optional; a bare name is accepted as a fuzzy reading.
type Load struct{}

type loadMarker int

const (
	loadMarkerKeyword loadMarker = iota + 1
	loadMarkerName
	loadMarkerNotFound
)

func (Load) Token() *token.Token {
	return token.Sequence(
		token.Optional(token.Keyword("load").Marked(loadMarkerKeyword)),
		token.Or(
			token.Name().Marked(loadMarkerName),
			token.AnyPhrase().Marked(loadMarkerNotFound),
		),
	)
}

func (Load) Autocomplete(fm token.FuzzyMatch, _ string, _ *Meta) *Suggestion {
	if part, ok := fm.List.FindMarker(loadMarkerName); ok && part.Record != nil {
		record := part.Record
		name := record.Thing.Name().MustValue()

		term := name
		if fm.List.ContainsMarker(loadMarkerKeyword) {
			term = "load " + name
		}
		description := record.Thing.Data.DisplayDescription()
		if record.IsUnsaved() {
			description += " (unsaved)"
		}
		return &Suggestion{Term: term, Description: description}
	}

	if fm.List.ContainsMarker(loadMarkerKeyword) && !fm.List.ContainsMarker(loadMarkerNotFound) {
		return &Suggestion{Term: "load [name]", Description: "load an entry"}
	}
	return nil
}

func (Load) Priority(list token.MatchList) (Priority, bool) {
	if list.ContainsMarker(loadMarkerKeyword) {
		return PriorityCanonical, true
	}
	if list.ContainsMarker(loadMarkerName) {
		return PriorityFuzzy, true
	}
	return 0, false
}

func (Load) CanonicalForm(list token.MatchList) (string, bool) {
	part, ok := list.FindMarker(loadMarkerName)
	if !ok || part.Record == nil {
		return "", false
	}
	return "load " + part.Record.Thing.Name().MustValue(), true
}

func (Load) Run(ctx context.Context, list token.MatchList, meta *Meta) (string, error) {
	found := list.FindMarkers(loadMarkerName, loadMarkerNotFound)
	if len(found) == 0 {
		return "", fmt.Errorf("Couldn't load.")
	}

	part := found[0]
	if part.Record == nil {
		return "", fmt.Errorf("No matches for %q.", part.Substr.Str())
	}
	return loadRecord(ctx, *part.Record, meta), nil
}

// loadRecord renders a record's details, offering a save shortcut for
// unsaved things.
func loadRecord(ctx context.Context, record repo.Record, meta *Meta) string {
	relations := meta.Repo.LoadRelations(ctx, &record.Thing)
	output := record.Thing.DisplayDetails(relations)

	if record.IsUnsaved() {
		name := record.Thing.Name().MustValue()
		meta.QueueAlias(NewAlias(
			token.Keyword("save"),
			fmt.Sprintf("save %s", name),
			AliasSave{Name: name},
		))
		output += fmt.Sprintf(
			"\n\n_%s has not yet been saved. Use ~save~ to save %s to your `journal`._",
			name,
			pronounFor(&record),
		)
	}
	return output
}

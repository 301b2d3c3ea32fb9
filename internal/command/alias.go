package command

import (
	"context"
	"fmt"

	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

// AliasAction is what an alias does when run.
type AliasAction interface {
	isAliasAction()
}

// AliasSave saves the named recent thing, as offered after loading or
// creating an unsaved entry.
type AliasSave struct {
	Name string
}

// AliasLoad loads the named thing, as offered by numbered "more" results.
type AliasLoad struct {
	Name string
}

// AliasCreateMore regenerates alternatives for a create request.
type AliasCreateMore struct {
	Data world.ThingData
}

func (AliasSave) isAliasAction()       {}
func (AliasLoad) isAliasAction()       {}
func (AliasCreateMore) isAliasAction() {}

// Alias is a transient command installed by another command's run: "save"
// after generating something, "more" for alternatives, "1"–"0" to pick one.
// Aliases last until the next run replaces them.
type Alias struct {
	tok         *token.Token
	description string
	action      AliasAction
}

// NewAlias builds an alias from a token, its autocomplete description, and
// an action.
func NewAlias(tok *token.Token, description string, action AliasAction) *Alias {
	return &Alias{tok: tok, description: description, action: action}
}

func (a *Alias) Token() *token.Token {
	return a.tok
}

func (a *Alias) Autocomplete(fm token.FuzzyMatch, _ string, _ *Meta) *Suggestion {
	term, ok := fm.AutocompleteTerm()
	if !ok {
		return nil
	}
	return &Suggestion{Term: term, Description: a.description}
}

func (a *Alias) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (a *Alias) CanonicalForm(list token.MatchList) (string, bool) {
	if len(list) == 0 || list[0].Term == "" {
		return "", false
	}
	return list[0].Term, true
}

func (a *Alias) Run(ctx context.Context, _ token.MatchList, meta *Meta) (string, error) {
	switch action := a.action.(type) {
	case AliasSave:
		return saveByName(ctx, action.Name, meta)

	case AliasLoad:
		record, err := meta.Repo.GetByName(ctx, action.Name)
		if err != nil {
			return "", fmt.Errorf("No matches for %q.", action.Name)
		}
		return loadRecord(ctx, record, meta), nil

	case AliasCreateMore:
		return createMore(ctx, action.Data, meta)

	default:
		return "", fmt.Errorf("An error occurred.")
	}
}

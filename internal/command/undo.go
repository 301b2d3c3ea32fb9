package command

import (
	"context"
	"fmt"

	"lorekeeper/internal/token"
)

// Undo reverses the most recent change.
type Undo struct{}

func (Undo) Token() *token.Token {
	return token.Keyword("undo")
}

func (Undo) Autocomplete(_ token.FuzzyMatch, _ string, meta *Meta) *Suggestion {
	history := meta.Repo.UndoHistory()
	if len(history) == 0 {
		return &Suggestion{Term: "undo", Description: "nothing to undo"}
	}
	return &Suggestion{
		Term:        "undo",
		Description: "undo " + history[0].DescribeUndo(),
	}
}

func (Undo) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (Undo) CanonicalForm(_ token.MatchList) (string, bool) {
	return "undo", true
}

func (Undo) Run(ctx context.Context, _ token.MatchList, meta *Meta) (string, error) {
	history := meta.Repo.UndoHistory()
	_, ok, err := meta.Repo.Undo(ctx)
	if !ok {
		return "", fmt.Errorf("Nothing to undo.")
	}
	if err != nil {
		return "", fmt.Errorf("Failed to undo %s.", history[0].DescribeUndo())
	}
	return fmt.Sprintf(
		"_Successfully undid %s. Use `redo` to reverse this._",
		history[0].DescribeUndo(),
	), nil
}

// Redo re-applies the change most recently undone.
type Redo struct{}

func (Redo) Token() *token.Token {
	return token.Keyword("redo")
}

func (Redo) Autocomplete(_ token.FuzzyMatch, _ string, meta *Meta) *Suggestion {
	change := meta.Repo.RedoChange()
	if change == nil {
		return &Suggestion{Term: "redo", Description: "nothing to redo"}
	}
	return &Suggestion{
		Term:        "redo",
		Description: "redo " + change.DescribeRedo(),
	}
}

func (Redo) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (Redo) CanonicalForm(_ token.MatchList) (string, bool) {
	return "redo", true
}

func (Redo) Run(ctx context.Context, _ token.MatchList, meta *Meta) (string, error) {
	change := meta.Repo.RedoChange()
	_, ok, err := meta.Repo.Redo(ctx)
	if !ok {
		return "", fmt.Errorf("Nothing to redo.")
	}
	if err != nil {
		return "", fmt.Errorf("Failed to redo %s.", change.DescribeRedo())
	}
	return fmt.Sprintf(
		"_Successfully redid %s. Use `undo` to reverse this._",
		change.DescribeRedo(),
	), nil
}

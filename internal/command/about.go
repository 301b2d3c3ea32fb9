package command

import (
	"context"
	_ "embed"
	"strings"

	"lorekeeper/internal/token"
)

//go:embed about.md
var aboutText string

// About prints the introduction.
type About struct{}

func (About) Token() *token.Token {
	return token.Keyword("about")
}

func (About) Autocomplete(_ token.FuzzyMatch, _ string, _ *Meta) *Suggestion {
	return &Suggestion{Term: "about", Description: "about lorekeeper"}
}

func (About) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (About) CanonicalForm(_ token.MatchList) (string, bool) {
	return "about", true
}

func (About) Run(_ context.Context, _ token.MatchList, _ *Meta) (string, error) {
	return strings.TrimRight(aboutText, "\n"), nil
}

// Package command binds grammar tokens to runnable commands and implements
// the dispatcher: text in, markdown out, with context-sensitive
// autocomplete along the way.
package command

import (
	"context"
	"math/rand/v2"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

// Priority ranks an exact match. A canonical match is uniquely identified
// by its keyword and always runs; a fuzzy match is a plausible reading that
// only runs when it is the sole interpretation.
type Priority int

const (
	PriorityCanonical Priority = iota
	PriorityFuzzy
)

// Suggestion is one autocomplete entry: the completed term and a short
// description.
type Suggestion struct {
	Term        string
	Description string
}

// Command is a grammar bound to behavior. Token must return a fresh tree
// per dispatch; Priority and CanonicalForm judge exact matches; Run
// executes the winner.
type Command interface {
	Token() *token.Token
	Autocomplete(fm token.FuzzyMatch, input string, meta *Meta) *Suggestion
	Priority(list token.MatchList) (Priority, bool)
	CanonicalForm(list token.MatchList) (string, bool)
	Run(ctx context.Context, list token.MatchList, meta *Meta) (string, error)
}

// Meta is the per-session state commands run against: the repository, the
// generation tables, and the scratchpad of aliases the running command
// wants installed.
type Meta struct {
	Repo         *repo.Repository
	Demographics *world.Demographics
	Names        world.NameGenerator
	Rng          *rand.Rand
	// AutocompleteMax caps suggestion lists; zero means the default of
	// ten.
	AutocompleteMax int

	aliasesNew     []*Alias
	lastAlternates []string
}

// LastAlternates returns the canonical forms of the alternate readings of
// the most recent run, for the CLI's suggest entry point.
func (m *Meta) LastAlternates() []string {
	return m.lastAlternates
}

// QueueAlias records a transient alias to be installed into the registry
// when the current run completes.
func (m *Meta) QueueAlias(alias *Alias) {
	m.aliasesNew = append(m.aliasesNew, alias)
}

func (m *Meta) takeNewAliases() []*Alias {
	aliases := m.aliasesNew
	m.aliasesNew = nil
	return aliases
}

// Registry holds the installed commands in a stable order; insertion order
// breaks priority ties. Aliases live alongside and are replaced wholesale
// after each run.
type Registry struct {
	commands []Command
	aliases  []*Alias
}

// NewRegistry builds a registry over the given commands.
func NewRegistry(commands ...Command) *Registry {
	return &Registry{commands: commands}
}

// DefaultRegistry wires up the full command set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		About{},
		Create{},
		Load{},
		Save{},
		Journal{},
		TimeCommand{},
		Undo{},
		Redo{},
	)
}

// Aliases returns the currently installed aliases.
func (r *Registry) Aliases() []*Alias {
	return r.aliases
}

func (r *Registry) all() []Command {
	all := make([]Command, 0, len(r.commands)+len(r.aliases))
	for _, alias := range r.aliases {
		all = append(all, alias)
	}
	all = append(all, r.commands...)
	return all
}

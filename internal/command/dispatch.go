package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/scan"
	"lorekeeper/internal/token"
)

const maxSuggestions = 10

// Run parses input against every registered command, picks the winner by
// priority, executes it, and installs any aliases the command queued. The
// returned string (or error text) is markdown.
func Run(ctx context.Context, reg *Registry, meta *Meta, input string) (string, error) {
	log := logging.Get(logging.CategoryDispatch)
	in := scan.NewSubstr(input)
	mc := &token.Context{Ctx: ctx, Names: meta.Repo}

	type candidate struct {
		cmd      Command
		priority Priority
		list     token.MatchList
	}
	var candidates []candidate

	for _, cmd := range reg.all() {
		tok := cmd.Token()
		for list := range tok.MatchInputExact(in, mc) {
			if priority, ok := cmd.Priority(list); ok {
				candidates = append(candidates, candidate{cmd, priority, list})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority < candidates[j].priority
	})
	log.Debugf("input %q matched %d candidates", input, len(candidates))

	meta.lastAlternates = nil
	runWinner := func(winner candidate) (string, error) {
		output, err := winner.cmd.Run(ctx, winner.list, meta)
		reg.aliases = meta.takeNewAliases()
		return output, err
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("Unknown command: %q", input)
	case 1:
		return runWinner(candidates[0])
	}

	if candidates[0].priority == PriorityCanonical {
		output, err := runWinner(candidates[0])

		var alternates []string
		for _, alt := range candidates[1:] {
			if alt.priority != PriorityFuzzy {
				continue
			}
			if form, ok := alt.cmd.CanonicalForm(alt.list); ok {
				alternates = append(alternates, form)
			}
		}
		meta.lastAlternates = alternates
		if len(alternates) == 0 {
			return output, err
		}

		note := "\n\n" + formatAlternates(
			"! There are other possible interpretations of this command. Did you mean:",
			alternates,
		)
		if err != nil {
			return "", fmt.Errorf("%s%s", err.Error(), note)
		}
		return output + note, nil
	}

	// Multiple fuzzy readings and no canonical one: never guess.
	var forms []string
	for _, c := range candidates {
		if form, ok := c.cmd.CanonicalForm(c.list); ok {
			forms = append(forms, form)
		}
	}
	meta.lastAlternates = forms
	if len(forms) == 0 {
		return "", fmt.Errorf("Unknown command: %q", input)
	}
	return "", fmt.Errorf("%s", formatAlternates(
		"There are several possible interpretations of this command. Did you mean:",
		forms,
	))
}

// Autocomplete returns sorted suggestions for a partial input, at most
// meta.AutocompleteMax of them (ten when that is unset).
func Autocomplete(ctx context.Context, reg *Registry, meta *Meta, input string) []Suggestion {
	in := scan.NewSubstr(input)
	if _, ok := scan.FirstWord(in); !ok {
		return nil
	}
	mc := &token.Context{Ctx: ctx, Names: meta.Repo}

	var suggestions []Suggestion
	seen := make(map[Suggestion]struct{})
	for _, cmd := range reg.all() {
		tok := cmd.Token()
		for fm := range tok.MatchInput(in, mc) {
			// Overflow means the user already typed past this command.
			if fm.Kind == token.MatchOverflow {
				continue
			}
			suggestion := cmd.Autocomplete(fm, input, meta)
			if suggestion == nil {
				continue
			}
			if _, dup := seen[*suggestion]; dup {
				continue
			}
			seen[*suggestion] = struct{}{}
			suggestions = append(suggestions, *suggestion)
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Term != suggestions[j].Term {
			return suggestions[i].Term < suggestions[j].Term
		}
		return suggestions[i].Description < suggestions[j].Description
	})
	limit := meta.AutocompleteMax
	if limit <= 0 {
		limit = maxSuggestions
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func formatAlternates(heading string, forms []string) string {
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	for _, form := range forms {
		fmt.Fprintf(&b, "\n* `%s`", form)
	}
	return b.String()
}

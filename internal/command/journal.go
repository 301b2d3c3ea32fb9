package command

import (
	"context"
	"fmt"
	"strings"

	"lorekeeper/internal/token"
	"lorekeeper/internal/world"
)

// Journal lists every saved entry, grouped by kind.
type Journal struct{}

func (Journal) Token() *token.Token {
	return token.Keyword("journal")
}

func (Journal) Autocomplete(_ token.FuzzyMatch, _ string, _ *Meta) *Suggestion {
	return &Suggestion{Term: "journal", Description: "list your saved entries"}
}

func (Journal) Priority(_ token.MatchList) (Priority, bool) {
	return PriorityCanonical, true
}

func (Journal) CanonicalForm(_ token.MatchList) (string, bool) {
	return "journal", true
}

func (Journal) Run(_ context.Context, _ token.MatchList, meta *Meta) (string, error) {
	records := meta.Repo.Journal()
	if len(records) == 0 {
		return "# Journal\n\n_Your journal is empty. Use ~save~ on a generated entry to start it._", nil
	}

	var characters, places []string
	for _, record := range records {
		line := "* " + record.Thing.DisplaySummary()
		if record.Thing.Kind() == world.KindNpc {
			characters = append(characters, line)
		} else {
			places = append(places, line)
		}
	}

	var b strings.Builder
	b.WriteString("# Journal")
	appendSection := func(heading string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n\n## %s\n\n%s", heading, strings.Join(lines, "\n"))
	}
	appendSection("Characters", characters)
	appendSection("Places", places)
	return b.String(), nil
}

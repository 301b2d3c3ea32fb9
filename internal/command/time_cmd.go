package command

import (
	"context"
	"fmt"
	"strings"

	"lorekeeper/internal/gametime"
	"lorekeeper/internal/token"
)

// TimeCommand shows the in-game clock and advances or rewinds it with
// interval words like "+1d" and "-30m".
type TimeCommand struct{}

type timeMarker int

const (
	timeMarkerShow timeMarker = iota + 1
	timeMarkerInterval
)

func (TimeCommand) Token() *token.Token {
	return token.Or(
		token.KeywordList([]string{"time", "now", "date"}).Marked(timeMarkerShow),
		token.AnyWord().Marked(timeMarkerInterval),
	)
}

func (TimeCommand) Autocomplete(fm token.FuzzyMatch, _ string, meta *Meta) *Suggestion {
	if len(fm.List) == 0 {
		return nil
	}
	part := &fm.List[0]

	if part.Marker == timeMarkerShow {
		return &Suggestion{Term: part.Term, Description: "display the in-game time"}
	}

	word := part.Substr.Str()
	switch {
	case word == "+":
		return &Suggestion{Term: "+[time]", Description: "advance the clock"}
	case word == "-":
		return &Suggestion{Term: "-[time]", Description: "rewind the clock"}
	case strings.HasPrefix(word, "+"):
		if _, err := gametime.ParseInterval(word[1:]); err == nil {
			return &Suggestion{Term: word, Description: "advance the clock"}
		}
	case strings.HasPrefix(word, "-"):
		if _, err := gametime.ParseInterval(word[1:]); err == nil {
			return &Suggestion{Term: word, Description: "rewind the clock"}
		}
	}
	return nil
}

func (TimeCommand) Priority(list token.MatchList) (Priority, bool) {
	if list.ContainsMarker(timeMarkerShow) {
		return PriorityCanonical, true
	}
	if part, ok := list.FindMarker(timeMarkerInterval); ok {
		if _, _, ok := parseSignedInterval(part.Substr.Str()); ok {
			return PriorityCanonical, true
		}
	}
	return 0, false
}

func (TimeCommand) CanonicalForm(list token.MatchList) (string, bool) {
	if list.ContainsMarker(timeMarkerShow) {
		return "time", true
	}
	if part, ok := list.FindMarker(timeMarkerInterval); ok {
		if interval, forward, parsed := parseSignedInterval(part.Substr.Str()); parsed {
			sign := "+"
			if !forward {
				sign = "-"
			}
			return sign + interval.String(), true
		}
	}
	return "", false
}

func (TimeCommand) Run(ctx context.Context, list token.MatchList, meta *Meta) (string, error) {
	if list.ContainsMarker(timeMarkerShow) {
		return fmt.Sprintf("It is currently %s.", meta.Repo.Time().LongString()), nil
	}

	part, ok := list.FindMarker(timeMarkerInterval)
	if !ok {
		return "", fmt.Errorf("Couldn't parse time.")
	}
	interval, forward, parsed := parseSignedInterval(part.Substr.Str())
	if !parsed {
		return "", fmt.Errorf("Couldn't parse time %q.", part.Substr.Str())
	}

	var (
		next    gametime.Time
		inRange bool
	)
	if forward {
		next, inRange = meta.Repo.Time().Add(interval)
	} else {
		next, inRange = meta.Repo.Time().Sub(interval)
	}
	if !inRange {
		return "", fmt.Errorf("Couldn't advance time by %s.", interval)
	}

	meta.Repo.SetTime(ctx, next)
	return fmt.Sprintf("_It is now %s._", next.LongString()), nil
}

// parseSignedInterval reads "+1d" or "-2h" style words.
func parseSignedInterval(word string) (gametime.Interval, bool, bool) {
	if len(word) < 2 {
		return gametime.Interval{}, false, false
	}

	var forward bool
	switch word[0] {
	case '+':
		forward = true
	case '-':
		forward = false
	default:
		return gametime.Interval{}, false, false
	}

	interval, err := gametime.ParseInterval(word[1:])
	if err != nil {
		return gametime.Interval{}, false, false
	}
	return interval, forward, true
}

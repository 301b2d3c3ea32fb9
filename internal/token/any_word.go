package token

import (
	"lorekeeper/internal/scan"
)

func (t *Token) matchAnyWord(input scan.Substr) Stream {
	return func(yield func(FuzzyMatch) bool) {
		word, ok := scan.FirstWord(input)
		if !ok {
			yield(NewIncomplete(MatchPart{Substr: input.After(), Marker: t.marker}))
			return
		}

		part := MatchPart{Substr: word, Marker: t.marker}
		if word.IsAtEnd() {
			yield(NewExact(part))
		} else {
			yield(NewOverflow(MatchList{part}, word.After()))
		}
	}
}

func (t *Token) matchAnyPhrase(input scan.Substr) Stream {
	return func(yield func(FuzzyMatch) bool) {
		matched := false
		for phrase := range scan.Phrases(input) {
			matched = true
			part := MatchPart{Substr: phrase, Marker: t.marker}
			if phrase.IsAtEnd() {
				if !yield(NewExact(part)) {
					return
				}
			} else if !yield(NewOverflow(MatchList{part}, phrase.After())) {
				return
			}
		}
		if !matched {
			yield(NewIncomplete(MatchPart{Substr: input.After(), Marker: t.marker}))
		}
	}
}

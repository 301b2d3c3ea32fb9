package token

import (
	"lorekeeper/internal/scan"
)

func (t *Token) matchKeyword(input scan.Substr) Stream {
	return func(yield func(FuzzyMatch) bool) {
		word, ok := scan.FirstWord(input)
		if !ok {
			yield(NewIncomplete(MatchPart{Substr: input.After(), Marker: t.marker, Term: t.term}))
			return
		}

		if word.EqualFold(t.term) {
			part := MatchPart{Substr: word, Marker: t.marker, Term: t.term}
			if word.IsAtEnd() {
				yield(NewExact(part))
			} else {
				yield(NewOverflow(MatchList{part}, word.After()))
			}
		} else if word.CanComplete() && word.PrefixOfFold(t.term) {
			yield(NewIncomplete(MatchPart{Substr: word, Marker: t.marker, Term: t.term}))
		}
	}
}

func (t *Token) matchKeywordList(input scan.Substr) Stream {
	return func(yield func(FuzzyMatch) bool) {
		word, ok := scan.FirstWord(input)
		if !ok {
			for _, term := range t.terms {
				if !yield(NewIncomplete(MatchPart{Substr: input.After(), Marker: t.marker, Term: term})) {
					return
				}
			}
			return
		}

		atEnd := word.IsAtEnd()
		for _, term := range t.terms {
			if word.EqualFold(term) {
				part := MatchPart{Substr: word, Marker: t.marker, Term: term}
				if atEnd {
					if !yield(NewExact(part)) {
						return
					}
				} else if !yield(NewOverflow(MatchList{part}, word.After())) {
					return
				}
			} else if word.CanComplete() && word.PrefixOfFold(term) {
				if !yield(NewIncomplete(MatchPart{Substr: word, Marker: t.marker, Term: term})) {
					return
				}
			}
		}
	}
}

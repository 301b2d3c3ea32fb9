package token

import (
	"lorekeeper/internal/scan"
)

// matchSequenceTokens matches tokens in order against input. The empty
// sequence matches exactly at a clean end and overflows everything
// otherwise, which is also how Optional models its empty branch.
func matchSequenceTokens(tokens []*Token, input scan.Substr, mc *Context) Stream {
	if len(tokens) == 0 {
		return func(yield func(FuzzyMatch) bool) {
			if _, ok := scan.FirstWord(input); ok {
				yield(NewOverflow(nil, input))
			} else {
				yield(NewExact())
			}
		}
	}

	return func(yield func(FuzzyMatch) bool) {
		for result := range tokens[0].MatchInput(input, mc) {
			if len(tokens) == 1 {
				if !yield(result) {
					return
				}
				continue
			}

			switch result.Kind {
			case MatchIncomplete:
				// The tail is unreachable; surface the partial match so
				// autocomplete can still see it.
				if !yield(result) {
					return
				}

			case MatchOverflow, MatchExact:
				leftover := result.Leftover
				if result.Kind == MatchExact {
					// Synthesize a zero-length tail so the remaining
					// tokens report what they would have wanted.
					leftover = tailAfter(result.List, input)
				}
				for sub := range matchSequenceTokens(tokens[1:], leftover, mc) {
					if !yield(sub.Prepend(result.List)) {
						return
					}
				}
			}
		}
	}
}

// tailAfter locates the input position following the last matched part.
func tailAfter(list MatchList, input scan.Substr) scan.Substr {
	if len(list) == 0 {
		return input
	}
	return list[len(list)-1].Substr.After()
}

func (t *Token) matchOr(input scan.Substr, mc *Context) Stream {
	return func(yield func(FuzzyMatch) bool) {
		for _, child := range t.children {
			for result := range child.MatchInput(input, mc) {
				if !yield(result) {
					return
				}
			}
		}
	}
}

func (t *Token) matchOptional(input scan.Substr, mc *Context) Stream {
	inner := t.children[0]
	return func(yield func(FuzzyMatch) bool) {
		for result := range inner.MatchInput(input, mc) {
			if !yield(result) {
				return
			}
		}
		// The empty branch: match nothing at this position.
		for result := range matchSequenceTokens(nil, input, mc) {
			if !yield(result) {
				return
			}
		}
	}
}

// matchAnyOfTokens matches each token at most once, in any order. Every
// intermediate match is emitted too, so autocomplete works mid-phrase.
func matchAnyOfTokens(tokens []*Token, input scan.Substr, mc *Context) Stream {
	return func(yield func(FuzzyMatch) bool) {
		for i, tok := range tokens {
			for result := range tok.MatchInput(input, mc) {
				if result.Kind == MatchOverflow {
					rest := make([]*Token, 0, len(tokens)-1)
					rest = append(rest, tokens[:i]...)
					rest = append(rest, tokens[i+1:]...)

					for sub := range matchAnyOfTokens(rest, result.Leftover, mc) {
						if !yield(sub.Prepend(result.List)) {
							return
						}
					}
				}
				if !yield(result) {
					return
				}
			}
		}
	}
}

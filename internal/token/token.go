// Package token implements the grammar tree the command engine parses input
// with. A Token is a node of the grammar; matching a token against input
// produces a lazy stream of fuzzy matches, each classified as exact,
// overflowing (input remains for the next token), or incomplete (the user
// has not typed enough, which is what autocomplete feeds on).
//
// Tokens carry optional markers: opaque comparable tags that survive into
// the match results, so commands can jump straight to the sub-match they
// care about instead of descending the tree by hand.
package token

import (
	"context"
	"iter"

	"lorekeeper/internal/repo"
	"lorekeeper/internal/scan"
)

// Marker is an opaque tag attached to a grammar node. Any comparable value
// works; commands conventionally declare a small unexported enum.
type Marker any

// NameLookup is the slice of the repository the Name token needs.
type NameLookup interface {
	GetByName(ctx context.Context, name string) (repo.Record, error)
	GetByNameStart(ctx context.Context, prefix string) ([]repo.Record, error)
}

// Context carries what matching needs besides the input: the context for
// repository queries and the repository itself. It is read-only during a
// match.
type Context struct {
	Ctx   context.Context
	Names NameLookup
}

// Stream is a lazy sequence of fuzzy matches. Each pull advances matching
// by at most one combinator step; dropping the consumer cancels the rest.
type Stream = iter.Seq[FuzzyMatch]

type kind int

const (
	kindKeyword kind = iota
	kindKeywordList
	kindAnyWord
	kindAnyPhrase
	kindName
	kindSequence
	kindOr
	kindAnyOf
	kindOptional
)

// Token is one node of a grammar tree. Build trees with the constructors
// and attach markers with Marked.
type Token struct {
	kind     kind
	term     string
	terms    []string
	children []*Token
	marker   Marker
}

// Keyword matches exactly one literal word, case-insensitively.
func Keyword(term string) *Token {
	return &Token{kind: kindKeyword, term: term}
}

// KeywordList matches any one of a set of literal words. Ambiguity between
// terms is preserved; the dispatcher deals with it.
func KeywordList(terms []string) *Token {
	return &Token{kind: kindKeywordList, terms: terms}
}

// AnyWord matches one arbitrary word.
func AnyWord() *Token {
	return &Token{kind: kindAnyWord}
}

// AnyPhrase matches one or more arbitrary words, emitting one match per
// admissible prefix so that following tokens can backtrack.
func AnyPhrase() *Token {
	return &Token{kind: kindAnyPhrase}
}

// Name matches a word or phrase naming a thing in the repository.
func Name() *Token {
	return &Token{kind: kindName}
}

// Sequence matches its tokens in order.
func Sequence(tokens ...*Token) *Token {
	return &Token{kind: kindSequence, children: tokens}
}

// Or matches any one of its alternatives, each yielding independent
// matches.
func Or(tokens ...*Token) *Token {
	return &Token{kind: kindOr, children: tokens}
}

// AnyOf matches a set of tokens in any order, each at most once. Used for
// flag-like modifiers.
func AnyOf(tokens ...*Token) *Token {
	return &Token{kind: kindAnyOf, children: tokens}
}

// Optional matches its inner token or the empty string.
func Optional(inner *Token) *Token {
	return &Token{kind: kindOptional, children: []*Token{inner}}
}

// Marked attaches a marker and returns the token for chaining.
func (t *Token) Marked(marker Marker) *Token {
	t.marker = marker
	return t
}

// MatchInput evaluates the token against input, streaming fuzzy matches
// lazily.
func (t *Token) MatchInput(input scan.Substr, mc *Context) Stream {
	var stream Stream
	switch t.kind {
	case kindKeyword:
		stream = t.matchKeyword(input)
	case kindKeywordList:
		stream = t.matchKeywordList(input)
	case kindAnyWord:
		stream = t.matchAnyWord(input)
	case kindAnyPhrase:
		stream = t.matchAnyPhrase(input)
	case kindName:
		stream = t.matchName(input, mc)
	case kindSequence:
		stream = matchSequenceTokens(t.children, input, mc)
	case kindOr:
		stream = t.matchOr(input, mc)
	case kindAnyOf:
		stream = matchAnyOfTokens(t.children, input, mc)
	case kindOptional:
		stream = t.matchOptional(input, mc)
	default:
		return func(func(FuzzyMatch) bool) {}
	}

	// Leaf tokens put their marker on the part itself; a marked grouping
	// token wraps each match so the group can be found as a unit.
	if t.marker == nil || t.isLeaf() {
		return stream
	}
	return func(yield func(FuzzyMatch) bool) {
		for fm := range stream {
			if !yield(fm.wrap(t.marker, input)) {
				return
			}
		}
	}
}

// MatchInputExact streams only the exact matches, which is what the run
// pipeline dispatches on.
func (t *Token) MatchInputExact(input scan.Substr, mc *Context) iter.Seq[MatchList] {
	return func(yield func(MatchList) bool) {
		for fm := range t.MatchInput(input, mc) {
			if fm.Kind != MatchExact {
				continue
			}
			if !yield(fm.List) {
				return
			}
		}
	}
}

func (t *Token) isLeaf() bool {
	switch t.kind {
	case kindSequence, kindOr, kindAnyOf, kindOptional:
		return false
	default:
		return true
	}
}

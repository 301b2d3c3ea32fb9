// Package scan splits raw command input into quoted-aware words while
// preserving each word's position in the original string. Everything
// downstream (token matching, autocomplete, canonical forms) works on
// Substr values rather than bare strings so that overflow and completion
// decisions can look at what surrounds a word.
package scan

import (
	"strings"
	"unicode"
)

// Substr is a view of a slice inside a larger original string. The inner
// range covers the content of the word; the outer range additionally covers
// enclosing quotes, if any. Invariant: inner is contained in outer, outer in
// the original.
type Substr struct {
	original             string
	innerStart, innerEnd int
	outerStart, outerEnd int
}

// NewSubstr wraps an entire string as a Substr.
func NewSubstr(s string) Substr {
	return Substr{original: s, innerEnd: len(s), outerEnd: len(s)}
}

// NewSubstrSpan builds a Substr over original with explicit inner and outer
// byte ranges. Intended for the scanner and for tests.
func NewSubstrSpan(original string, innerStart, innerEnd, outerStart, outerEnd int) Substr {
	return Substr{
		original:   original,
		innerStart: innerStart,
		innerEnd:   innerEnd,
		outerStart: outerStart,
		outerEnd:   outerEnd,
	}
}

// Str returns the inner content, quotes excluded.
func (s Substr) Str() string {
	return s.original[s.innerStart:s.innerEnd]
}

// OuterStr returns the content including enclosing quotes, if any.
func (s Substr) OuterStr() string {
	return s.original[s.outerStart:s.outerEnd]
}

// OriginalStr returns the whole string this Substr is a view into.
func (s Substr) OriginalStr() string {
	return s.original
}

// Range returns the outer byte range.
func (s Substr) Range() (start, end int) {
	return s.outerStart, s.outerEnd
}

// After returns the remainder of the original string starting at the end of
// the outer range, leading whitespace included.
func (s Substr) After() Substr {
	return Substr{
		original:   s.original,
		innerStart: s.outerEnd,
		innerEnd:   len(s.original),
		outerStart: s.outerEnd,
		outerEnd:   len(s.original),
	}
}

// IsAtEnd reports whether only whitespace follows the outer range.
func (s Substr) IsAtEnd() bool {
	return strings.TrimRightFunc(s.original[s.outerEnd:], unicode.IsSpace) == ""
}

// CanComplete reports whether the user could still be typing this word: the
// outer range runs to the very end of the input and is not terminated by a
// closing quote.
func (s Substr) CanComplete() bool {
	return s.outerEnd == len(s.original) && s.innerEnd == s.outerEnd
}

// IsQuoted reports whether the inner and outer ranges differ, i.e. the word
// was written in quotes.
func (s Substr) IsQuoted() bool {
	return s.innerStart != s.outerStart || s.innerEnd != s.outerEnd
}

// IsEmpty reports whether the inner content is zero-length.
func (s Substr) IsEmpty() bool {
	return s.innerStart == s.innerEnd
}

// EqualFold reports whether the inner content equals term, case-insensitively.
func (s Substr) EqualFold(term string) bool {
	return strings.EqualFold(s.Str(), term)
}

func (s Substr) String() string {
	return s.Str()
}

// PrefixOfFold reports whether the inner content is a case-insensitive
// prefix of term.
func (s Substr) PrefixOfFold(term string) bool {
	return HasPrefixFold(term, s.Str())
}

// HasPrefixFold reports whether s begins with prefix, case-insensitively.
func HasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}
